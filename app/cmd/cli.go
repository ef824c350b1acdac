package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/go-carestore/app/configs"
	"github.com/Rakhulsr/go-carestore/app/db/seeders"
	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/models/migrations"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/routes"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/format"
	"github.com/Rakhulsr/go-carestore/app/utils/renderer"
	"github.com/Rakhulsr/go-carestore/app/utils/sessions"
	"github.com/Rakhulsr/go-carestore/app/views"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func RunCli(env configs.ENV) {
	cmd := &cli.Command{
		Name:   "carestore",
		Usage:  "Care store storefront",
		Action: serveAction(env),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the storefront HTTP server",
				Action: serveAction(env),
			},
			{
				Name:  "migrate",
				Usage: "Run storage database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info().Str("driver", env.StorageDriver).Msg("migrate: migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session and CSRF keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.new_keys", Usage: "file to write the keys to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateAndPrintSessionKeys(c.String("out"))
				},
			},
			{
				Name:  "mock-catalog",
				Usage: "Serve a generated demo product backend for local development",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8083", Usage: "listen address"},
					&cli.IntFlag{Name: "seed", Value: 1, Usage: "random seed"},
					&cli.IntFlag{Name: "per-section", Value: 6, Usage: "products generated per section"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					handler := seeders.DemoCatalog(int64(c.Int("seed")), int(c.Int("per-section")))
					log.Info().Str("addr", c.String("addr")).Msg("mock-catalog: serving demo backend")
					server := &http.Server{Addr: c.String("addr"), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
					return server.ListenAndServe()
				},
			},
			{
				Name:  "catalog",
				Usage: "Print the filtered listing of a category page",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "page", Usage: "category page slug", Required: true},
					&cli.StringSliceFlag{Name: "brand", Usage: "only show these brands"},
					&cli.StringFlag{Name: "sort", Usage: "sort key, e.g. \"Price: Low to High\""},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					pages, err := configs.LoadPageCatalog(env.PagesFile)
					if err != nil {
						return err
					}
					catalog := buildCatalog(env, pages, repositories.NewNoopCatalogCache())
					return printCategory(ctx, os.Stdout, pages, catalog, c.String("page"), c.StringSlice("brand"), c.String("sort"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("RunCli: command failed")
	}
}

func buildCatalog(env configs.ENV, pages models.PageCatalog, cache repositories.CatalogCache) *services.Catalog {
	resolver := services.NewImageResolver(env.AssetHost)
	stores := make([]*services.CatalogStore, 0, len(pages.Sources))
	for _, source := range pages.Sources {
		stores = append(stores, services.NewCatalogStore(source, resolver,
			services.WithTimeout(env.CatalogTimeout),
			services.WithCache(cache),
			services.WithPageSize(env.CatalogPageSize),
		))
	}
	return services.NewCatalog(stores...)
}

func printCategory(ctx context.Context, w io.Writer, pages models.PageCatalog, catalog *services.Catalog, slug string, brands []string, sortKey string) error {
	page, ok := pages.Page(slug)
	if !ok {
		return fmt.Errorf("unknown category page %q", slug)
	}
	store, ok := catalog.Store(page.Source)
	if !ok {
		return fmt.Errorf("page %q uses unknown source %q", slug, page.Source)
	}

	products, err := store.FetchForPage(ctx, page)
	if err != nil {
		return err
	}
	products = services.ApplyFilters(products, brands, sortKey)

	fmt.Fprintf(w, "%s (%d products)\n", page.Title, len(products))
	for _, p := range products {
		line := fmt.Sprintf("  %-10s %-40s %-16s %s", p.ID, p.Title, p.Brand, format.FormatRupee(p.Price))
		if label := p.DiscountLabel(); label != "" {
			line += "  " + label
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Total: %s\n", format.FormatRupee(helpers.SumPrices(products)))
	return nil
}

func serveAction(env configs.ENV) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		return serve(ctx, env)
	}
}

func serve(ctx context.Context, env configs.ENV) error {
	pages, err := configs.LoadPageCatalog(env.PagesFile)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if env.NeedsRedis() {
		redisClient, err = configs.NewRedisClient(env)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		log.Info().Str("addr", env.RedisAddr).Msg("serve: redis connected")
	}

	storage, err := configs.OpenStorage(env, redisClient)
	if err != nil {
		return err
	}
	log.Info().Str("driver", env.StorageDriver).Msg("serve: storage ready")

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}
	csrfKey, err := configs.LoadCSRFKey(env)
	if err != nil {
		return err
	}

	router := routes.NewRouter(routes.Deps{
		Render:         renderer.New(views.Templates, !env.IsProduction()),
		Pages:          pages,
		Catalog:        buildCatalog(env, pages, configs.NewCatalogCache(env, redisClient)),
		Storage:        storage,
		Sessions:       sessions.NewCookieSessionStore(env.IsProduction(), keys.Pairs()...),
		Uploads:        services.NewUploadRegistry(env.UploadMaxBytes, services.WithUploadTTL(env.UploadTTL), services.WithMaxPendingUploads(env.UploadMaxQueue)),
		UploadMaxBytes: env.UploadMaxBytes,
		CSRFKey:        csrfKey,
		SecureCookie:   env.IsProduction(),
	})

	server := &http.Server{
		Addr:              env.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Int("pages", len(pages.Pages)).Msg("serve: server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
