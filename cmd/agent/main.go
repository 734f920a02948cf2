package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/slipsync/slipsync-api/internal/agent"
	"github.com/slipsync/slipsync-api/internal/infrastructure/receipt"
	"github.com/slipsync/slipsync-api/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "agent.yaml", "ruta del archivo de configuración del agente")
		pairToken  = flag.String("pair", "", "token de sesión para emparejar el dispositivo (una sola vez)")
		deviceID   = flag.String("device", "", "identificador estable del dispositivo (solo al emparejar)")
		deviceName = flag.String("name", "", "nombre legible del dispositivo (solo al emparejar)")
		serverURL  = flag.String("server", "", "URL del backend (solo al emparejar)")
	)
	flag.Parse()

	log := logger.New(logger.Config{Env: os.Getenv("APP_ENV"), Level: "info", Service: "slipsync-agent"})

	cfg, err := agent.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Modo emparejamiento: registra el dispositivo, guarda la credencial y sale.
	if *pairToken != "" {
		if *deviceID == "" {
			log.Fatal().Msg("emparejar requiere -device")
		}
		if *serverURL != "" {
			cfg.ServerURL = *serverURL
		}
		client := agent.NewClient(cfg.ServerURL)
		creds, err := client.Pair(ctx, *pairToken, *deviceID, *deviceName)
		if err != nil {
			log.Fatal().Err(err).Msg("emparejamiento fallido")
		}
		cfg.DeviceIdentifier = creds.DeviceIdentifier
		cfg.DeviceName = creds.Name
		cfg.APISecret = creds.APISecret
		if err := agent.SaveConfig(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Msg("guardar credenciales")
		}
		fmt.Printf("dispositivo %q emparejado; credenciales en %s\n", creds.DeviceIdentifier, *configPath)
		return
	}

	if !cfg.Paired() {
		log.Fatal().Msg("agente sin emparejar: ejecute con -pair <token> -device <id>")
	}

	a := agent.New(cfg, agent.NewClient(cfg.ServerURL), receipt.NewMarotoRenderer(), log.Component("poller"))
	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("agente finalizado con error")
	}
}
