// Package admin agrupa la configuración global y las operaciones de datos:
// respaldo, restauración, reinicio y limpieza.
package admin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// UseCase configuración y mantenimiento de datos.
type UseCase struct {
	st       inventory.StateStore
	defaults entity.Settings
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. defaults se aplica tras un reset completo.
func NewUseCase(st inventory.StateStore, defaults entity.Settings, log zerolog.Logger) *UseCase {
	return &UseCase{st: st, defaults: defaults, log: log}
}

// GetSettings configuración vigente.
func (uc *UseCase) GetSettings(_ context.Context) dto.SettingsDTO {
	return dto.NewSettingsDTO(uc.st.Snapshot().Settings())
}

// UpdateSettings reemplaza la configuración.
func (uc *UseCase) UpdateSettings(ctx context.Context, in dto.SettingsDTO) (*dto.SettingsDTO, error) {
	settings := in.Entity()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := uc.st.Run(ctx, func(tx *store.Tx) error {
		tx.PutSettings(settings)
		return nil
	}); err != nil {
		return nil, err
	}
	out := dto.NewSettingsDTO(settings)
	return &out, nil
}

// ResetAll borra productos, movimientos y ventas y restablece la configuración por defecto.
func (uc *UseCase) ResetAll(ctx context.Context) (*dto.ResetResponse, error) {
	out, err := uc.wipe(ctx, uc.defaults)
	if err != nil {
		return nil, err
	}
	out.Message = "datos reiniciados con la configuración por defecto"
	return out, nil
}

// Clear borra productos, movimientos y ventas conservando la configuración.
func (uc *UseCase) Clear(ctx context.Context) (*dto.ResetResponse, error) {
	out, err := uc.wipe(ctx, uc.st.Snapshot().Settings())
	if err != nil {
		return nil, err
	}
	out.Message = "datos eliminados, configuración conservada"
	return out, nil
}

// Initialize escribe la configuración por defecto si nunca se guardó.
func (uc *UseCase) Initialize(ctx context.Context) (*dto.ResetResponse, error) {
	if uc.st.Snapshot().SettingsSaved() {
		return &dto.ResetResponse{Message: "la configuración ya existe"}, nil
	}
	if err := uc.st.Run(ctx, func(tx *store.Tx) error {
		tx.PutSettings(uc.defaults)
		return nil
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Msg("configuración inicial creada")
	return &dto.ResetResponse{Message: "configuración inicial creada"}, nil
}

// wipe reemplaza todo el estado en una sola unidad de trabajo; informa lo eliminado.
func (uc *UseCase) wipe(ctx context.Context, settings entity.Settings) (*dto.ResetResponse, error) {
	out := &dto.ResetResponse{}
	err := uc.st.Run(ctx, func(tx *store.Tx) error {
		snap := uc.st.Snapshot()
		out.Products = len(snap.Products())
		out.Movements = len(snap.Movements())
		out.Sales = len(snap.Sales())
		tx.Replace(nil, nil, nil, settings)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Warn().
		Int("products", out.Products).
		Int("movements", out.Movements).
		Int("sales", out.Sales).
		Msg("datos eliminados")
	return out, nil
}
