package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/observability"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/prompts"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/llm"
	"github.com/AnubhavBangari3/Creative-Production-Engine/services/recovery"
)

var tracer = otel.Tracer("cpe.engine.handlers")

// KitResponse is the kit shape plus the diagnostic fields the frontend
// shows when generation degrades. The kit fields are always present so
// the UI never has to special-case a failure payload.
type KitResponse struct {
	datatypes.ProductionKit
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`
	Fixed string `json:"fixed,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// callModel runs one LLM generation with latency accounting.
func callModel(ctx context.Context, client llm.LLMClient, metrics *observability.EngineMetrics,
	backend, prompt string) (string, error) {

	params := llm.GenerationParams{Format: "json"}
	start := time.Now()
	raw, err := client.Generate(ctx, prompt, params)
	if metrics != nil {
		metrics.LLMLatencySeconds.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}
	return raw, err
}

// connectionHint maps transport-level LLM failures to actionable
// messages. Returns empty strings for errors that should surface as-is.
func connectionHint(err error) (msg, hint string) {
	text := err.Error()
	switch {
	case strings.Contains(text, "connection refused"):
		return "Cannot connect to the model backend. Is it running?",
			"Run: ollama serve (or open Ollama app) and then: ollama run llama3"
	case strings.Contains(text, "context deadline exceeded"),
		strings.Contains(text, "Client.Timeout"):
		return "Model request timed out.", ""
	default:
		return "", ""
	}
}

// HandleGenerateKit generates a full production kit from a topic.
//
// The response is always the safe kit shape. When the model output
// cannot be recovered into JSON the handler still returns 200, carrying
// the raw output, the final repaired candidate, and a parse hint so the
// failure is debuggable from the frontend.
func HandleGenerateKit(client llm.LLMClient, store StoreSaver,
	metrics *observability.EngineMetrics, backend string) gin.HandlerFunc {

	return func(c *gin.Context) {
		var req datatypes.GenerateKitRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
			kit := datatypes.EmptyKit("", "", "")
			c.JSON(http.StatusBadRequest, KitResponse{ProductionKit: kit, Error: "Topic is required"})
			return
		}

		topic := strings.TrimSpace(req.Topic)
		tone := strings.TrimSpace(req.Tone)
		language := strings.TrimSpace(req.Language)
		kit := datatypes.EmptyKit(topic, tone, language)

		ctx, span := tracer.Start(c.Request.Context(), "HandleGenerateKit")
		defer span.End()
		span.SetAttributes(attribute.String("kit.topic", topic))

		prompt := prompts.KitPrompt(kit.Topic, kit.Tone, kit.Language)
		raw, err := callModel(ctx, client, metrics, backend, prompt)
		if err != nil {
			if metrics != nil {
				metrics.GenerateRequestsTotal.WithLabelValues("generate", "error").Inc()
			}
			if msg, hint := connectionHint(err); msg != "" {
				slog.Warn("LLM backend unreachable", "error", err)
				c.JSON(http.StatusOK, KitResponse{ProductionKit: kit, Error: msg, Hint: hint})
				return
			}
			slog.Error("LLM generation failed", "topic", topic, "error", err)
			c.JSON(http.StatusInternalServerError, KitResponse{ProductionKit: kit, Error: err.Error()})
			return
		}

		result := recovery.Recover(raw)
		if metrics != nil {
			metrics.ObserveRecovery(result.StageReached.String(), result.Ok())
		}
		if !result.Ok() {
			slog.Warn("model output unrecoverable", "topic", topic,
				"stage", result.StageReached, "error", result.Err)
			if metrics != nil {
				metrics.GenerateRequestsTotal.WithLabelValues("generate", "degraded").Inc()
			}
			c.JSON(http.StatusOK, KitResponse{
				ProductionKit: kit,
				Error:         "Model did not return valid JSON (even after repair)",
				Raw:           raw,
				Fixed:         result.FinalCandidate,
				Hint:          "JSON parse error: " + result.Err.Error(),
			})
			return
		}

		datatypes.MergeParsed(&kit, result.Value)
		slog.Info("kit generated", "topic", kit.Topic, "stage", result.StageReached)

		stored := datatypes.StoredKit{
			ID:        uuid.NewString(),
			Topic:     kit.Topic,
			Tone:      kit.Tone,
			Language:  kit.Language,
			CreatedAt: time.Now().UTC(),
			Kit:       kit,
		}
		// History is best effort: a storage failure never fails the response.
		if store != nil {
			if err := store.Save(ctx, stored); err != nil {
				slog.Error("failed to persist kit", "id", stored.ID, "error", err)
			} else if metrics != nil {
				metrics.KitsStored.Inc()
			}
		}

		if metrics != nil {
			metrics.GenerateRequestsTotal.WithLabelValues("generate", "success").Inc()
		}
		c.JSON(http.StatusOK, KitResponse{ProductionKit: kit, ID: stored.ID})
	}
}

// HandleRegenerateSection regenerates one section of an existing kit.
//
// Request:  { "section": "titles", "kit": {...} }
// Response: { "section": "titles", "value": [...] }
func HandleRegenerateSection(client llm.LLMClient,
	metrics *observability.EngineMetrics, backend string) gin.HandlerFunc {

	return func(c *gin.Context) {
		var req datatypes.RegenerateSectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section"})
			return
		}
		if !prompts.IsAllowedSection(req.Section) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid section"})
			return
		}
		if strings.TrimSpace(req.Kit.Topic) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing kit.topic"})
			return
		}

		ctx, span := tracer.Start(c.Request.Context(), "HandleRegenerateSection")
		defer span.End()
		span.SetAttributes(attribute.String("kit.section", req.Section))

		kit := req.Kit
		if kit.Tone == "" {
			kit.Tone = "cinematic"
		}
		if kit.Language == "" {
			kit.Language = "English"
		}

		prompt := prompts.SectionPrompt(req.Section, kit)
		raw, err := callModel(ctx, client, metrics, backend, prompt)
		if err != nil {
			if metrics != nil {
				metrics.GenerateRequestsTotal.WithLabelValues("regenerate", "error").Inc()
			}
			if msg, hint := connectionHint(err); msg != "" {
				c.JSON(http.StatusOK, gin.H{"error": msg, "hint": hint})
				return
			}
			slog.Error("section regeneration failed", "section", req.Section, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		result := recovery.Recover(raw)
		if metrics != nil {
			metrics.ObserveRecovery(result.StageReached.String(), result.Ok())
		}
		if !result.Ok() {
			if metrics != nil {
				metrics.GenerateRequestsTotal.WithLabelValues("regenerate", "degraded").Inc()
			}
			c.JSON(http.StatusOK, gin.H{
				"error": "Invalid JSON from model",
				"raw":   raw,
				"fixed": result.FinalCandidate,
				"hint":  result.Err.Error(),
			})
			return
		}

		_, hasSection := result.Value.Get("section")
		_, hasValue := result.Value.Get("value")
		if result.Value.Kind() != recovery.KindObject || !hasSection || !hasValue {
			if metrics != nil {
				metrics.GenerateRequestsTotal.WithLabelValues("regenerate", "degraded").Inc()
			}
			c.JSON(http.StatusOK, gin.H{
				"error": "Model response missing section/value",
				"raw":   raw,
				"fixed": result.FinalCandidate,
			})
			return
		}

		slog.Info("section regenerated", "section", req.Section, "stage", result.StageReached)
		if metrics != nil {
			metrics.GenerateRequestsTotal.WithLabelValues("regenerate", "success").Inc()
		}
		c.JSON(http.StatusOK, result.Value)
	}
}
