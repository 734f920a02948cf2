package entity

import (
	"encoding/json"
	"time"
)

// Estados de un PrintJob. Los terminales (success/failed) son finales:
// ninguna transición sale de ellos.
const (
	PrintJobQueued     = "queued"
	PrintJobProcessing = "processing"
	PrintJobSuccess    = "success"
	PrintJobFailed     = "failed"
)

// PrintJobTypeReceipt único tipo de job soportado hoy.
const PrintJobTypeReceipt = "receipt"

// PrintJob unidad de trabajo de impresión despachada a un agente.
//
// DeviceIdentifier es la clave de ruteo (identificador estable del dispositivo,
// NO su secreto): el agente se autentica con el secreto y la cola filtra por el
// identificador del dispositivo resuelto, de modo que rotar el secreto no deja
// jobs huérfanos.
//
// Payload es el snapshot completo de la orden al momento de encolar,
// serializado por el emisor; la cola lo trata como opaco.
type PrintJob struct {
	ID               string
	MerchantID       string
	StoreID          string
	DeviceIdentifier string
	JobType          string
	Payload          json.RawMessage
	Status           string
	Attempts         int
	Error            string
	CreatedAt        time.Time
	ClaimedAt        *time.Time // última entrega a un agente; base del claim timeout
	CompletedAt      *time.Time // solo se fija en success; failed lo deja nulo
}

// Terminal indica si el job ya no admite transiciones.
func (j *PrintJob) Terminal() bool {
	return j.Status == PrintJobSuccess || j.Status == PrintJobFailed
}
