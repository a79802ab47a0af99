package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/application/report"
	"github.com/jhoicas/cmv-api/internal/bootstrap"
	"github.com/jhoicas/cmv-api/pkg/config"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

// runtime estado compartido entre Before y las acciones.
type runtime struct {
	cfg   *config.Config
	log   *logger.Logger
	repos *bootstrap.Repositories
	out   io.Writer
}

func main() {
	rt := &runtime{out: os.Stdout}
	if err := newApp(rt).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(rt *runtime) *cli.App {
	return &cli.App{
		Name:  "cmvctl",
		Usage: "Operación del servicio de CMV: migraciones y reportes desde la terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "storage",
				Usage:   "Driver de almacenamiento (postgres|memory)",
				EnvVars: []string{"STORAGE_DRIVER"},
			},
		},
		Before: rt.load,
		After:  rt.close,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Aplica o revierte el esquema de la base de datos",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "Aplica las migraciones pendientes", Action: rt.migrate(true)},
					{Name: "down", Usage: "Revierte todas las migraciones", Action: rt.migrate(false)},
				},
			},
			{
				Name:  "cmv",
				Usage: "Calcula el CMV de un período",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Usage: "Inicio del período (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "end", Usage: "Fin del período (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "pdf", Usage: "Escribe el reporte en PDF en esta ruta en lugar de JSON"},
				},
				Action: rt.cmv,
			},
			{
				Name:  "suggest",
				Usage: "Genera la lista de compras sugerida a partir de un inventario",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "inventory-id", Usage: "Inventario de referencia", Required: true},
					&cli.IntFlag{Name: "horizon", Usage: "Días a cubrir (0 = valor configurado)"},
					&cli.StringFlag{Name: "pdf", Usage: "Escribe la lista en PDF en esta ruta en lugar de JSON"},
				},
				Action: rt.suggest,
			},
		},
	}
}

func (rt *runtime) load(c *cli.Context) error {
	if s := c.String("storage"); s != "" {
		if err := os.Setenv("STORAGE_DRIVER", s); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.LogLevel, Output: os.Stderr})
	return nil
}

func (rt *runtime) close(*cli.Context) error {
	if rt.repos != nil {
		rt.repos.Close()
	}
	return nil
}

func (rt *runtime) migrate(up bool) cli.ActionFunc {
	return func(*cli.Context) error {
		if rt.cfg.Storage.Driver != config.StoragePostgres {
			return fmt.Errorf("migrate requiere STORAGE_DRIVER=postgres")
		}
		return bootstrap.Migrate(rt.cfg, rt.log, up)
	}
}

func (rt *runtime) reportUseCase(c *cli.Context) (*report.ReportUseCase, error) {
	repos, err := bootstrap.OpenRepositories(c.Context, rt.cfg, rt.log)
	if err != nil {
		return nil, err
	}
	rt.repos = repos
	return bootstrap.NewReportUseCase(rt.cfg, repos, nil, rt.log)
}

func (rt *runtime) cmv(c *cli.Context) error {
	uc, err := rt.reportUseCase(c)
	if err != nil {
		return err
	}
	req := dto.CMVReportRequest{StartDate: c.String("start"), EndDate: c.String("end")}
	if path := c.String("pdf"); path != "" {
		body, err := uc.RenderCMVReportPDF(c.Context, req)
		if err != nil {
			return err
		}
		return rt.writeFile(path, body)
	}
	out, err := uc.GetCMVReport(c.Context, req)
	if err != nil {
		return err
	}
	return rt.printJSON(out)
}

func (rt *runtime) suggest(c *cli.Context) error {
	uc, err := rt.reportUseCase(c)
	if err != nil {
		return err
	}
	req := dto.PurchaseSuggestionRequest{InventoryID: c.Int64("inventory-id"), HorizonDays: c.Int("horizon")}
	if path := c.String("pdf"); path != "" {
		body, err := uc.RenderPurchaseSuggestionPDF(c.Context, req)
		if err != nil {
			return err
		}
		return rt.writeFile(path, body)
	}
	out, err := uc.GetPurchaseSuggestion(c.Context, req)
	if err != nil {
		return err
	}
	return rt.printJSON(out)
}

func (rt *runtime) printJSON(v any) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (rt *runtime) writeFile(path string, body []byte) error {
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	rt.log.Info().Str("file", path).Int("bytes", len(body)).Msg("PDF generado")
	return nil
}
