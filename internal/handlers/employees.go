// Package handlers is the HTTP layer of the employee API.
//
// It parses requests, calls the employee service and maps
// the results onto status codes and JSON bodies.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/services/employees"
	"github.com/gorilla/mux"
)

// DeleteConfirmation is the body returned by a successful DELETE.
const DeleteConfirmation = "Employee deleted successfully!."

const maxBodyBytes = 1 << 20

// EmployeeService is the employee business logic consumed by EmployeeHandler.
type EmployeeService interface {
	SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, identifier int64) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, newData models.Employee, identifier int64) (models.Employee, error)
	DeleteEmployee(ctx context.Context, identifier int64) error
}

type EmployeeHandler struct {
	log     *slog.Logger
	service EmployeeService
}

func NewEmployeeHandler(log *slog.Logger, service EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{log: log.With(slog.String("division", "http")), service: service}
}

// Register mounts the employee routes on router under /api/employees.
func (h *EmployeeHandler) Register(router *mux.Router) {
	api := router.PathPrefix("/api/employees").Subrouter()

	api.HandleFunc("", h.CreateEmployee).Methods(http.MethodPost)
	api.HandleFunc("", h.GetAllEmployees).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.GetEmployeeByID).Methods(http.MethodGet)
	api.HandleFunc("/{id:[0-9]+}", h.UpdateEmployee).Methods(http.MethodPut)
	api.HandleFunc("/{id:[0-9]+}", h.DeleteEmployee).Methods(http.MethodDelete)
}

// CreateEmployee godoc
// @Summary Create an employee
// @Description Stores a new employee and returns it with its generated id
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body models.Employee true "Employee"
// @Success 201 {object} models.Employee
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 409 {object} handlers.ErrorResponse
// @Router /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(writer http.ResponseWriter, req *http.Request) {
	employee, ok := h.decodeEmployee(writer, req)
	if !ok {
		return
	}

	created, err := h.service.SaveEmployee(req.Context(), employee)
	if err != nil {
		h.respondServiceError(writer, req, "Employees.Create", err)
		return
	}

	respondJSON(h.log, writer, req, http.StatusCreated, created)
}

// GetAllEmployees godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {array} models.Employee
// @Router /api/employees [get]
func (h *EmployeeHandler) GetAllEmployees(writer http.ResponseWriter, req *http.Request) {
	employeesList, err := h.service.GetAllEmployees(req.Context())
	if err != nil {
		h.respondServiceError(writer, req, "Employees.GetAll", err)
		return
	}

	respondJSON(h.log, writer, req, http.StatusOK, employeesList)
}

// GetEmployeeByID godoc
// @Summary Get an employee
// @Description Returns the employee, or null when no employee has this id
// @Tags employees
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} models.Employee
// @Router /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployeeByID(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	employee, err := h.service.GetEmployeeByID(req.Context(), identifier)
	if err != nil {
		h.respondServiceError(writer, req, "Employees.GetByID", err)
		return
	}

	// a missing employee is encoded as null with 200
	respondJSON(h.log, writer, req, http.StatusOK, employee)
}

// UpdateEmployee godoc
// @Summary Update an employee
// @Description Overwrites first name, last name and email of the employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param employee body models.Employee true "Employee"
// @Success 200 {object} models.Employee
// @Failure 400 {object} handlers.ErrorResponse
// @Failure 404 {object} handlers.ErrorResponse
// @Failure 409 {object} handlers.ErrorResponse
// @Router /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	employee, ok := h.decodeEmployee(writer, req)
	if !ok {
		return
	}

	updated, err := h.service.UpdateEmployee(req.Context(), employee, identifier)
	if err != nil {
		h.respondServiceError(writer, req, "Employees.Update", err)
		return
	}

	respondJSON(h.log, writer, req, http.StatusOK, updated)
}

// DeleteEmployee godoc
// @Summary Delete an employee
// @Tags employees
// @Produce plain
// @Param id path int true "Employee ID"
// @Success 200 {string} string "Employee deleted successfully!."
// @Router /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(writer http.ResponseWriter, req *http.Request) {
	identifier, ok := h.pathID(writer, req)
	if !ok {
		return
	}

	if err := h.service.DeleteEmployee(req.Context(), identifier); err != nil {
		h.respondServiceError(writer, req, "Employees.Delete", err)
		return
	}

	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	if _, err := writer.Write([]byte(DeleteConfirmation)); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write response", sl.Err(err))
	}
}

func (h *EmployeeHandler) pathID(writer http.ResponseWriter, req *http.Request) (int64, bool) {
	identifier, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(h.log, writer, req, http.StatusBadRequest, "invalid employee id")
		return 0, false
	}

	return identifier, true
}

func (h *EmployeeHandler) decodeEmployee(writer http.ResponseWriter, req *http.Request) (models.Employee, bool) {
	var employee models.Employee

	req.Body = http.MaxBytesReader(writer, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(&employee); err != nil {
		h.log.DebugContext(req.Context(), "Failed to decode employee", sl.Err(err))
		respondError(h.log, writer, req, http.StatusBadRequest, "invalid request body: "+err.Error())
		return models.Employee{}, false
	}

	return employee, true
}

func (h *EmployeeHandler) respondServiceError(writer http.ResponseWriter, req *http.Request, opn string, err error) {
	switch {
	case errors.Is(err, employees.ErrEmployeeNotFound):
		respondError(h.log, writer, req, http.StatusNotFound, employees.ErrEmployeeNotFound.Error())
	case errors.Is(err, employees.ErrEmailTaken):
		respondError(h.log, writer, req, http.StatusConflict, employees.ErrEmailTaken.Error())
	default:
		h.log.ErrorContext(req.Context(), "Request failed", sl.Op(opn), sl.Err(err))
		respondError(h.log, writer, req, http.StatusInternalServerError, "internal server error")
	}
}
