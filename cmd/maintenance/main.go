// Comando de mantenimiento fuera de línea sobre el mismo store que la API.
//
//	maintenance validate           repara inventario y máquinas
//	maintenance clean [-days N]    borra movimientos más viejos que N días
//	maintenance backup [-out dir]  escribe un respaldo completo en disco
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	appanalytics "github.com/jhoicas/Stockeando-api/internal/application/analytics"
	"github.com/jhoicas/Stockeando-api/internal/application/inventory"
	"github.com/jhoicas/Stockeando-api/internal/application/ledger"
	"github.com/jhoicas/Stockeando-api/internal/application/validation"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/backup"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Stockeando-api/internal/infrastructure/storage"
	"github.com/jhoicas/Stockeando-api/pkg/config"
	"github.com/jhoicas/Stockeando-api/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "uso: maintenance <validate|clean|backup> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd, args := os.Args[1], os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-maintenance"})

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer closeStore()

	repos := docstore.New(store, log.Zerolog(), nil)
	ledgerSvc := ledger.NewService(repos.Movements, repos.ProductStates, repos.Inventory, repos.Machines, log.Zerolog(), nil)

	switch cmd {
	case "validate":
		codes := inventory.NewCodeGenerator(repos.Counter, cfg.App.Location(), cfg.Codes.MaxAttempts)
		v := validation.NewValidator(repos.Inventory, repos.Machines, repos.ProductStates, codes, log.Zerolog(), nil)
		report, err := v.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("validación")
		}
		printJSON(report)

	case "clean":
		fs := flag.NewFlagSet("clean", flag.ExitOnError)
		days := fs.Int("days", cfg.Ledger.RetentionDays, "días de retención")
		_ = fs.Parse(args)
		removed, err := ledgerSvc.CleanOldMovements(ctx, *days)
		if err != nil {
			log.Fatal().Err(err).Msg("limpieza de movimientos")
		}
		log.Info().Int("removed", removed).Int("retention_days", *days).Msg("limpieza completada")

	case "backup":
		fs := flag.NewFlagSet("backup", flag.ExitOnError)
		out := fs.String("out", cfg.Backup.Dir, "directorio destino")
		_ = fs.Parse(args)
		sink, err := backup.NewFileSink(*out)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de respaldos")
		}
		uc := appanalytics.NewBackupUseCase(ledgerSvc, repos.Inventory, repos.Categories, sink, log.Zerolog())
		res, err := uc.Upload(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("respaldo")
		}
		abs, _ := filepath.Abs(res.Location)
		log.Info().Str("file", abs).Msg("respaldo escrito")

	default:
		usage()
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
