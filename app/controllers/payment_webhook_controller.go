package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ChorusHQ/Chorus/app/models"
	"github.com/ChorusHQ/Chorus/app/repository"
	"github.com/ChorusHQ/Chorus/internal/pkg/cache"
	"github.com/ChorusHQ/Chorus/internal/pkg/database"
	"github.com/ChorusHQ/Chorus/internal/pkg/env"
	"github.com/ChorusHQ/Chorus/internal/pkg/monetize"
)

const (
	paymentProvider   = "chorus-pay"
	webhookDedupeTTL  = 24 * time.Hour
	webhookCtxTimeout = 15 * time.Second
)

// webhookEnvelope is the outer shape of a payment provider delivery.
type webhookEnvelope struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	Data           monetize.PaymentIntent `json:"data"`
	AmountRefunded int64                  `json:"amount_refunded"`
}

// HandlePaymentWebhook ingests payment-intent deliveries. Order of defense:
// signature check, Redis fast dedupe, unique-row DB dedupe, then dispatch by
// event type. Unknown event types are acknowledged and ignored.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Webhook-Signature"))
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")

	ctx, cancel := context.WithTimeout(context.Background(), webhookCtxTimeout)
	defer cancel()

	var envlp webhookEnvelope
	if err := json.Unmarshal(rawBody, &envlp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	eventID := strings.TrimSpace(envlp.ID)
	if eventID == "" {
		eventID = strings.TrimSpace(c.Get("X-Webhook-Delivery"))
	}

	signatureValid := monetize.VerifyWebhookSignature(rawBody, signature, secret)

	// Fast-path duplicate rejection before touching the database. The unique
	// row below stays authoritative; a cold Redis never readmits an event.
	if eventID != "" {
		dedupeKey := fmt.Sprintf("webhook:dedupe:%s:%s", paymentProvider, eventID)
		if fresh, err := cache.SetNX(dedupeKey, "1", webhookDedupeTTL); err == nil && !fresh {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
		}
	}

	repos := repository.NewRepositories(database.GetDB())
	created, stored, err := repos.WebhookEvent.CreateIfNotExists(&models.PaymentWebhookEvent{
		Provider:        paymentProvider,
		ProviderEventID: eventID,
		EventType:       envlp.Type,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Printf("payment webhook persist failed (ip %s): %v", GetClientIP(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = repos.WebhookEvent.MarkProcessed(stored.ID, "invalid webhook signature")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	svc := monetize.NewServiceFromDB(database.GetDB())
	var dispatchErr error
	switch envlp.Type {
	case "payment_intent.succeeded":
		dispatchErr = svc.OnPaymentSucceeded(ctx, envlp.Data)
	case "payment_intent.payment_failed":
		dispatchErr = svc.OnPaymentFailed(ctx, envlp.Data)
	case "payment_intent.refunded":
		dispatchErr = svc.OnPaymentRefunded(ctx, envlp.Data, envlp.AmountRefunded)
	default:
		_ = repos.WebhookEvent.MarkProcessed(stored.ID, "")
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	processingError := ""
	if dispatchErr != nil {
		processingError = dispatchErr.Error()
	}
	_ = repos.WebhookEvent.MarkProcessed(stored.ID, processingError)
	if dispatchErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "event_processing_failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
