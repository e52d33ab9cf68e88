package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academy/internal/adapters/backend"
)

// PaymentSettingsGateway defines the backend calls needed by
// SavePaymentSettings.
type PaymentSettingsGateway interface {
	UpdatePaymentSettings(ctx context.Context, token string, settings backend.PaymentSettings) error
}

// SavePaymentSettingsInput carries input for the billing-settings
// orchestrator.
type SavePaymentSettingsInput struct {
	Token    string
	Settings backend.PaymentSettings
}

// SavePaymentSettingsDeps holds dependencies for SavePaymentSettings.
type SavePaymentSettingsDeps struct {
	Gateway PaymentSettingsGateway
}

var (
	ErrBadPrice         = errors.New("укажите стоимость тренировки")
	ErrBadGenerationDay = errors.New("день выставления счетов должен быть от 1 до 28")
)

// ExecuteSavePaymentSettings validates and stores the billing
// configuration applied by the backend's invoice generator.
func ExecuteSavePaymentSettings(ctx context.Context, input SavePaymentSettingsInput, deps SavePaymentSettingsDeps) error {
	s := input.Settings
	if s.PricePerTraining == "" {
		return ErrBadPrice
	}
	if s.InvoiceGenerationDay < 1 || s.InvoiceGenerationDay > 28 {
		return ErrBadGenerationDay
	}
	if err := deps.Gateway.UpdatePaymentSettings(ctx, input.Token, s); err != nil {
		return err
	}
	slog.Info("payment_settings_updated", "generation_day", s.InvoiceGenerationDay)
	return nil
}
