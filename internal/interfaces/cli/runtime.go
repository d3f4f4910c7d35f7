package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/export"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/store"
	"github.com/jhoicas/clientes-admin/pkg/config"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

// open carga la configuración (flags > env > .env > defaults) y abre el almacén.
func (rt *runtime) open(cmd *cobra.Command) error {
	cfg, err := config.LoadWith(rt.v)
	if err != nil {
		return err
	}
	policy, err := entity.ParseValidationPolicy(cfg.Admin.ValidationPolicy)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.policy = policy
	rt.log = logger.New(logger.Config{
		Env:   "development",
		Level: cfg.App.LogLevel,
		Out:   cmd.ErrOrStderr(),
	})

	st, err := store.Open(cmd.Context(), cfg, rt.log)
	if err != nil {
		return fmt.Errorf("abrir almacén %s: %w", cfg.Store.Kind, err)
	}
	rt.store = st
	return nil
}

func (rt *runtime) close() error {
	if rt.store == nil {
		return nil
	}
	err := rt.store.Close()
	rt.store = nil
	return err
}

// session crea la sesión de administración; con w != nil las notificaciones informativas
// se imprimen en w.
func (rt *runtime) session(w io.Writer, confirmDelete bool) *admin.Session {
	opts := admin.Options{
		Policy:        rt.policy,
		ToastDuration: rt.cfg.Admin.ToastDuration,
		ConfirmDelete: confirmDelete,
		PageSize:      rt.cfg.Admin.PageSize,
		Logger:        rt.log,
	}
	if w != nil {
		opts.OnNotify = func(n admin.Notification, visible bool) {
			if !visible || n.Mode == admin.ModeConfirm {
				return
			}
			rt.outMu.Lock()
			defer rt.outMu.Unlock()
			fmt.Fprintln(w, renderNotification(n))
		}
	}
	return admin.NewSession(rt.store.Repo, opts)
}

// useCase caso de uso con todos los formatos de exportación y la importación XLSX.
func (rt *runtime) useCase() *usecase.CustomerUseCase {
	encoders := append(export.Encoders(), pdf.NewMarotoCustomerPDF(""))
	opts := []usecase.CustomerOption{
		usecase.WithEncoders(encoders...),
		usecase.WithSheetReader(export.XLSXReader{}),
		usecase.WithLogger(rt.log),
	}
	if rt.store.Batch != nil {
		opts = append(opts, usecase.WithBatchCreator(rt.store.Batch))
	}
	return usecase.NewCustomerUseCase(rt.store.Repo, rt.policy, opts...)
}

