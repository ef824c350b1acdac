package main

import (
	"github.com/Rakhulsr/go-carestore/app/cmd"
	"github.com/Rakhulsr/go-carestore/app/configs"
)

func main() {
	env := configs.LoadEnv()
	configs.SetupLogger(env)
	cmd.RunCli(env)
}
