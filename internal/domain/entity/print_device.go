package entity

import "time"

// PrintDevice agente local emparejado con un merchant.
//
// DeviceIdentifier lo elige el cliente y es estable entre reinicios: es la
// clave de ruteo de los print jobs. APISecret lo genera el servidor en el
// primer registro y es la única credencial de las llamadas del agente; no se
// rota en re-registros para no invalidar la configuración guardada del agente.
type PrintDevice struct {
	ID               string
	DeviceIdentifier string
	APISecret        string
	MerchantID       string
	Name             string
	LastSeen         time.Time
	CreatedAt        time.Time
}
