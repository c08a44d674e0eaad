package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"fitstudio/models"
	"fitstudio/services/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SchedulerHandler exposes the scheduling optimizer over HTTP.
type SchedulerHandler struct {
	Service scheduler.SchedulingService
	Logger  *zap.Logger
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(svc scheduler.SchedulingService, logger *zap.Logger) *SchedulerHandler {
	return &SchedulerHandler{Service: svc, Logger: logger}
}

// GetAvailabilityHandler returns the coach's slot cells for a date window.
// Query params: coach_id, date_from (YYYY-MM-DD), days (default 7).
func (sh *SchedulerHandler) GetAvailabilityHandler(c *gin.Context) {
	coachID := c.Query("coach_id")
	dateFrom := c.Query("date_from")
	if coachID == "" || dateFrom == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coach_id and date_from are required"})
		return
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 14 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer between 1 and 14"})
			return
		}
		days = parsed
	}

	cells, err := sh.Service.GetAvailability(c.Request.Context(), coachID, dateFrom, days)
	if err != nil {
		sh.Logger.Sugar().Errorw("Failed to fetch availability", "coachID", coachID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch availability"})
		return
	}
	if cells == nil {
		cells = []models.TimeSlotCell{}
	}
	c.JSON(http.StatusOK, gin.H{"coach_id": coachID, "cells": cells})
}

// GenerateSuggestionsHandler runs the optimizer for a scheduling request.
func (sh *SchedulerHandler) GenerateSuggestionsHandler(c *gin.Context) {
	var req models.SchedulingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := sh.Service.GenerateSuggestions(c.Request.Context(), req)
	if err != nil {
		sh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ReSuggestHandler swaps a single rejected suggestion for an alternative.
func (sh *SchedulerHandler) ReSuggestHandler(c *gin.Context) {
	var input struct {
		SessionToken string `json:"session_token" binding:"required"`
		SlotID       string `json:"slot_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	suggestion, err := sh.Service.ReSuggestIndividual(c.Request.Context(), input.SessionToken, input.SlotID)
	if err != nil {
		sh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// ReSuggestAllHandler replaces the whole suggestion list.
func (sh *SchedulerHandler) ReSuggestAllHandler(c *gin.Context) {
	var input struct {
		SessionToken string `json:"session_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	suggestions, err := sh.Service.ReSuggestAll(c.Request.Context(), input.SessionToken)
	if err != nil {
		sh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// BookSelectedHandler books the accepted suggestions and retires the session.
func (sh *SchedulerHandler) BookSelectedHandler(c *gin.Context) {
	var input struct {
		SessionToken    string   `json:"session_token" binding:"required"`
		SelectedSlotIDs []string `json:"selected_slot_ids" binding:"required,min=1"`
		WorkoutNote     string   `json:"workout_note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := sh.Service.BookSelected(c.Request.Context(), input.SessionToken, input.SelectedSlotIDs, input.WorkoutNote)
	if err != nil {
		sh.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps scheduling error codes to HTTP statuses.
func (sh *SchedulerHandler) respondError(c *gin.Context, err error) {
	var se *scheduler.SchedulingError
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		switch se.Code {
		case scheduler.CodeSessionExpired:
			status = http.StatusGone
		case scheduler.CodeSlotNotFound, scheduler.CodeNoAvailability:
			status = http.StatusNotFound
		case scheduler.CodeCapacityRace:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": se.Message, "code": se.Code})
		return
	}
	sh.Logger.Sugar().Errorw("Scheduler request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
