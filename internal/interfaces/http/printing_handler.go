package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/slipsync/slipsync-api/internal/application/dto"
	"github.com/slipsync/slipsync-api/internal/application/printing"
	"github.com/slipsync/slipsync-api/internal/domain"
)

// PrintingHandler maneja dispositivos y print jobs. Los endpoints de
// usuario (registrar, listar, encolar) van detrás del auth de sesión; los
// de agente (pending, response, heartbeat) detrás del secreto de dispositivo.
type PrintingHandler struct {
	deviceUC *printing.DeviceUseCase
	jobUC    *printing.JobUseCase
}

// NewPrintingHandler construye el handler.
func NewPrintingHandler(deviceUC *printing.DeviceUseCase, jobUC *printing.JobUseCase) *PrintingHandler {
	return &PrintingHandler{deviceUC: deviceUC, jobUC: jobUC}
}

// RegisterDevice godoc
// @Summary Registra (o re-registra) un dispositivo de impresión
// @Description Idempotente por device_identifier: re-registrar conserva el secreto.
// @Tags printing
// @Security BearerAuth
// @Param device body dto.RegisterDeviceRequest true "Dispositivo"
// @Success 201 {object} dto.RegisterDeviceResponse
// @Router /api/printing/devices/register [post]
func (h *PrintingHandler) RegisterDevice(c *fiber.Ctx) error {
	var req dto.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	sctx := GetStoreContext(c)
	resp, err := h.deviceUC.Register(c.UserContext(), sctx.User.MerchantID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListDevices godoc
// @Summary Lista los dispositivos del merchant con su estado online
// @Tags printing
// @Security BearerAuth
// @Success 200 {array} dto.DeviceResponse
// @Router /api/printing/devices [get]
func (h *PrintingHandler) ListDevices(c *fiber.Ctx) error {
	sctx := GetStoreContext(c)
	devices, err := h.deviceUC.ListDevices(c.UserContext(), sctx.User.MerchantID, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(devices)
}

// EnqueueJob godoc
// @Summary Encola un print job para la tienda activa
// @Tags printing
// @Security BearerAuth
// @Param job body dto.EnqueueJobRequest true "Job"
// @Success 201 {object} dto.JobResponse
// @Router /api/printing/jobs [post]
func (h *PrintingHandler) EnqueueJob(c *fiber.Ctx) error {
	var req dto.EnqueueJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	sctx := GetStoreContext(c)
	if sctx.Store == nil {
		return writeError(c, domain.ErrNoStoreAssigned)
	}
	job, err := h.jobUC.Enqueue(c.UserContext(), sctx.User.MerchantID, sctx.Store.ID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

// ListJobs godoc
// @Summary Lista los print jobs recientes de la tienda activa
// @Tags printing
// @Security BearerAuth
// @Param limit query int false "Máximo de jobs (default 50)"
// @Success 200 {array} dto.JobResponse
// @Router /api/printing/jobs [get]
func (h *PrintingHandler) ListJobs(c *fiber.Ctx) error {
	sctx := GetStoreContext(c)
	if sctx.Store == nil {
		return writeError(c, domain.ErrNoStoreAssigned)
	}
	jobs, err := h.jobUC.ListByStore(c.UserContext(), sctx.Store.ID, c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(jobs)
}

// ClaimPending godoc
// @Summary Entrega al agente sus jobs pendientes (queued -> processing)
// @Description Atómico entre agentes concurrentes; re-entrega processing vencidos.
// @Tags agent
// @Security DeviceSecret
// @Success 200 {array} dto.JobResponse
// @Router /api/print-jobs/pending [get]
func (h *PrintingHandler) ClaimPending(c *fiber.Ctx) error {
	jobs, err := h.jobUC.Claim(c.UserContext(), GetDevice(c), time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(jobs)
}

// ReportResult godoc
// @Summary Reporta el resultado de impresión de un job
// @Tags agent
// @Security DeviceSecret
// @Param jobId path string true "ID del job"
// @Param result body dto.ReportResultRequest true "Resultado"
// @Success 200 {object} dto.JobResponse
// @Router /api/print-jobs/{jobId}/response [post]
func (h *PrintingHandler) ReportResult(c *fiber.Ctx) error {
	var req dto.ReportResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body inválido"})
	}
	job, err := h.jobUC.ReportResult(c.UserContext(), GetDevice(c), c.Params("jobId"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// Heartbeat godoc
// @Summary Latido del agente; marca el dispositivo como online
// @Tags agent
// @Security DeviceSecret
// @Success 200 {object} dto.HeartbeatResponse
// @Router /api/print-devices/heartbeat [post]
func (h *PrintingHandler) Heartbeat(c *fiber.Ctx) error {
	resp, err := h.deviceUC.Heartbeat(c.UserContext(), GetDevice(c).DeviceIdentifier, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
