// Package agent implementa el proceso local que drena la cola de impresión:
// se empareja una vez con el backend, guarda su credencial y luego alterna
// latidos con sondeos de jobs pendientes.
package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config credenciales y tuning del agente, persistidas en disco tras el
// emparejamiento. DeviceIdentifier es estable entre reinicios; APISecret lo
// entrega el backend una sola vez.
type Config struct {
	ServerURL        string `mapstructure:"server_url"`
	DeviceIdentifier string `mapstructure:"device_identifier"`
	DeviceName       string `mapstructure:"device_name"`
	APISecret        string `mapstructure:"api_secret"`
	SpoolDir         string `mapstructure:"spool_dir"`
}

// Paired indica si el agente ya tiene credencial guardada.
func (c Config) Paired() bool {
	return c.DeviceIdentifier != "" && c.APISecret != ""
}

// LoadConfig lee la configuración del agente. Si el archivo no existe
// devuelve una config vacía: el emparejamiento la creará.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("spool_dir", "spool")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("leer config del agente: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsear config del agente: %w", err)
	}
	return cfg, nil
}

// SaveConfig persiste la configuración (tras el emparejamiento).
func SaveConfig(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crear directorio de config: %w", err)
		}
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("server_url", cfg.ServerURL)
	v.Set("device_identifier", cfg.DeviceIdentifier)
	v.Set("device_name", cfg.DeviceName)
	v.Set("api_secret", cfg.APISecret)
	v.Set("spool_dir", cfg.SpoolDir)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("guardar config del agente: %w", err)
	}
	return nil
}
