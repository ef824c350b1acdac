package models

import "time"

// PrescriptionRecord is the locally stored proof of prescription for one
// product. DataURL is nil for non-image uploads.
type PrescriptionRecord struct {
	FileName    string    `json:"fileName"`
	DataURL     *string   `json:"dataURL"`
	ContentType string    `json:"contentType,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type Prescriptions map[string]PrescriptionRecord
