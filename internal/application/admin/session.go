package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/clientes-admin/internal/domain"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/domain/repository"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

// Mensajes mostrados al usuario.
const (
	MsgCreated       = "Cliente agregado."
	MsgUpdated       = "Cliente actualizado."
	MsgDeleted       = "Cliente eliminado."
	MsgInvalidFields = "Revise los campos marcados."
	MsgLoadFailed    = "No se pudieron cargar los clientes"
	MsgNotFound      = "El cliente ya no existe."
)

// Options configuración de la sesión.
type Options struct {
	Policy        entity.ValidationPolicy
	ToastDuration time.Duration
	ConfirmDelete bool
	PageSize      int
	Logger        *logger.Logger
	// OnNotify se invoca al mostrar o descartar notificaciones (ver WithOnChange).
	OnNotify func(n Notification, visible bool)
}

// Session coordina el listado, el formulario y las notificaciones sobre un repositorio.
// Se crea una vez por sesión de administración y se cierra con Close.
type Session struct {
	repo    repository.CustomerRepository
	opts    Options
	log     *logger.Logger
	list    *ListView
	form    *EditForm
	notes   *Notifier
	mu      sync.Mutex
	loading bool
}

// NewSession construye la sesión sobre el repositorio indicado.
func NewSession(repo repository.CustomerRepository, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	notifierOpts := []NotifierOption{WithToastDuration(opts.ToastDuration)}
	if opts.OnNotify != nil {
		notifierOpts = append(notifierOpts, WithOnChange(opts.OnNotify))
	}
	return &Session{
		repo:  repo,
		opts:  opts,
		log:   log,
		list:  NewListView(opts.PageSize),
		form:  NewEditForm(opts.Policy),
		notes: NewNotifier(notifierOpts...),
	}
}

// List vista del listado.
func (s *Session) List() *ListView { return s.list }

// Form formulario de alta/edición.
func (s *Session) Form() *EditForm { return s.form }

// Notifier capa de notificaciones.
func (s *Session) Notifier() *Notifier { return s.notes }

// Repository repositorio en uso.
func (s *Session) Repository() repository.CustomerRepository { return s.repo }

// Loading indica si hay una operación contra el repositorio en curso.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Reload vuelve a leer todos los clientes. Si falla se notifica y el listado no cambia.
func (s *Session) Reload(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("listar clientes")
		s.notes.Error(MsgLoadFailed + ": " + describe(err))
		return err
	}
	s.list.SetRecords(list)
	return nil
}

// OpenCreate abre el formulario vacío.
func (s *Session) OpenCreate() {
	s.form.Open(nil)
}

// OpenEdit abre el formulario con el cliente leído del repositorio.
func (s *Session) OpenEdit(ctx context.Context, id int64) error {
	s.setLoading(true)
	defer s.setLoading(false)

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("id", id).Msg("abrir cliente")
		s.notes.Error(describe(err))
		return err
	}
	s.form.Open(c)
	return nil
}

// Save guarda el formulario. Con errores de validación deja el formulario abierto y
// muestra un aviso; con éxito notifica y recarga el listado.
func (s *Session) Save(ctx context.Context) (*entity.Customer, error) {
	s.setLoading(true)
	c, created, err := s.form.Save(ctx, s.repo)
	s.setLoading(false)

	var fieldErrs entity.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		s.notes.Warning(MsgInvalidFields)
		return nil, err
	case err != nil:
		s.log.Error().Err(err).Bool("created", created).Msg("guardar cliente")
		s.notes.Error(describe(err))
		return nil, err
	}

	msg := MsgUpdated
	if created {
		msg = MsgCreated
	}
	s.log.Info().Int64("id", c.ID).Bool("created", created).Msg("cliente guardado")
	if err := s.Reload(ctx); err != nil {
		return c, nil
	}
	s.notes.Success(msg)
	return c, nil
}

// RequestDelete elimina el cliente en edición. Con ConfirmDelete muestra una
// confirmación y la eliminación ocurre al aceptarla (Notifier().Accept).
func (s *Session) RequestDelete(ctx context.Context) error {
	target := s.form.Editing()
	if target == nil {
		return ErrNotEditing
	}
	if !s.opts.ConfirmDelete {
		return s.deleteNow(ctx, target.ID)
	}
	msg := fmt.Sprintf("¿Eliminar al cliente %s?", strings.TrimSpace(target.Name+" "+target.Surname))
	s.notes.Confirm(msg, func() error { return s.deleteNow(ctx, target.ID) })
	return nil
}

func (s *Session) deleteNow(ctx context.Context, id int64) error {
	s.setLoading(true)
	err := s.repo.Delete(ctx, id)
	s.setLoading(false)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("eliminar cliente")
		s.notes.Error(describe(err))
		return err
	}
	s.form.Close()
	s.log.Info().Int64("id", id).Msg("cliente eliminado")
	if err := s.Reload(ctx); err != nil {
		return nil
	}
	s.notes.Success(MsgDeleted)
	return nil
}

// Close libera la sesión (detiene timers de notificaciones).
func (s *Session) Close() {
	s.form.Close()
	s.notes.Close()
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, domain.ErrTransport):
		return "Error de conexión: " + err.Error()
	default:
		return err.Error()
	}
}
