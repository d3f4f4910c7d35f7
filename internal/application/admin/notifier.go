package admin

import (
	"errors"
	"sync"
	"time"
)

// Severity nivel visual de la notificación; no cambia el comportamiento.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Mode tipo de notificación.
type Mode int

const (
	// ModeInfo se cierra sola tras la duración configurada.
	ModeInfo Mode = iota
	// ModeConfirm espera una elección explícita (confirmar o cancelar).
	ModeConfirm
)

// DefaultToastDuration duración por defecto de las notificaciones informativas.
const DefaultToastDuration = 4000 * time.Millisecond

// Etiquetas por defecto de la confirmación.
const (
	DefaultConfirmText = "Sí, eliminar"
	DefaultCancelText  = "Cancelar"
)

// ErrNoPendingConfirmation Accept/Cancel sin una confirmación visible.
var ErrNoPendingConfirmation = errors.New("no hay confirmación pendiente")

// Notification notificación visible.
type Notification struct {
	ID          uint64
	Severity    Severity
	Message     string
	Mode        Mode
	ConfirmText string
	CancelText  string
	ShownAt     time.Time
	Duration    time.Duration // 0 en confirmaciones
}

// Notifier muestra una notificación a la vez. Las informativas se descartan con un timer;
// las de confirmación quedan hasta Accept o Cancel. Una nueva notificación reemplaza a la
// anterior (una confirmación reemplazada se descarta sin ejecutar su callback).
type Notifier struct {
	mu        sync.Mutex
	duration  time.Duration
	current   *Notification
	onConfirm func() error
	timer     *time.Timer
	nextID    uint64
	onChange  func(n Notification, visible bool)
	now       func() time.Time
}

// NotifierOption configura el Notifier.
type NotifierOption func(*Notifier)

// WithToastDuration cambia la duración de las informativas (<=0 usa la de por defecto).
func WithToastDuration(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		if d > 0 {
			n.duration = d
		}
	}
}

// WithOnChange registra un callback invocado al mostrar (visible=true) o descartar una
// notificación. Se invoca fuera del lock y, para los descartes por tiempo, desde la
// goroutine del timer.
func WithOnChange(fn func(n Notification, visible bool)) NotifierOption {
	return func(n *Notifier) { n.onChange = fn }
}

// NewNotifier construye el notificador.
func NewNotifier(opts ...NotifierOption) *Notifier {
	n := &Notifier{duration: DefaultToastDuration, now: time.Now}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Duration duración configurada para las informativas.
func (n *Notifier) Duration() time.Duration { return n.duration }

// Notify muestra una notificación informativa.
func (n *Notifier) Notify(sev Severity, msg string) Notification {
	n.mu.Lock()
	note := n.replaceLocked(Notification{Severity: sev, Message: msg, Mode: ModeInfo, Duration: n.duration})
	id := note.ID
	n.timer = time.AfterFunc(n.duration, func() { n.expire(id) })
	n.mu.Unlock()
	n.emit(note, true)
	return note
}

// Success, Error, Warning e Info atajos de Notify.
func (n *Notifier) Success(msg string) Notification { return n.Notify(SeveritySuccess, msg) }
func (n *Notifier) Error(msg string) Notification   { return n.Notify(SeverityError, msg) }
func (n *Notifier) Warning(msg string) Notification { return n.Notify(SeverityWarning, msg) }
func (n *Notifier) Info(msg string) Notification    { return n.Notify(SeverityInfo, msg) }

// Confirm muestra una confirmación (severidad warning) que no se cierra sola.
// onConfirm se ejecuta sólo si se elige confirmar.
func (n *Notifier) Confirm(msg string, onConfirm func() error) Notification {
	return n.ConfirmWith(msg, DefaultConfirmText, DefaultCancelText, onConfirm)
}

// ConfirmWith igual que Confirm con etiquetas propias.
func (n *Notifier) ConfirmWith(msg, confirmText, cancelText string, onConfirm func() error) Notification {
	n.mu.Lock()
	note := n.replaceLocked(Notification{
		Severity:    SeverityWarning,
		Message:     msg,
		Mode:        ModeConfirm,
		ConfirmText: confirmText,
		CancelText:  cancelText,
	})
	n.onConfirm = onConfirm
	n.mu.Unlock()
	n.emit(note, true)
	return note
}

// Current notificación visible, si hay.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Pending indica si hay una confirmación esperando respuesta.
func (n *Notifier) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil && n.current.Mode == ModeConfirm
}

// Accept ejecuta el callback de la confirmación visible y luego la descarta (salvo que el
// callback ya haya mostrado otra notificación). Devuelve el error del callback.
func (n *Notifier) Accept() error {
	n.mu.Lock()
	if n.current == nil || n.current.Mode != ModeConfirm {
		n.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	id := n.current.ID
	fn := n.onConfirm
	n.onConfirm = nil
	n.mu.Unlock()

	var err error
	if fn != nil {
		err = fn()
	}
	n.dismissIf(id)
	return err
}

// Cancel descarta la confirmación visible sin ejecutar el callback.
func (n *Notifier) Cancel() error {
	n.mu.Lock()
	if n.current == nil || n.current.Mode != ModeConfirm {
		n.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	id := n.current.ID
	n.mu.Unlock()
	n.dismissIf(id)
	return nil
}

// Dismiss descarta la notificación visible (sin ejecutar callbacks).
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	note, ok := n.clearLocked()
	n.mu.Unlock()
	if ok {
		n.emit(note, false)
	}
}

// Close detiene el timer pendiente; el Notifier no debe usarse después.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.current = nil
	n.onConfirm = nil
}

func (n *Notifier) replaceLocked(note Notification) Notification {
	n.stopTimerLocked()
	n.onConfirm = nil
	n.nextID++
	note.ID = n.nextID
	note.ShownAt = n.now()
	n.current = &note
	return note
}

func (n *Notifier) expire(id uint64) {
	n.dismissIf(id)
}

func (n *Notifier) dismissIf(id uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	note, _ := n.clearLocked()
	n.mu.Unlock()
	n.emit(note, false)
}

func (n *Notifier) clearLocked() (Notification, bool) {
	n.stopTimerLocked()
	n.onConfirm = nil
	if n.current == nil {
		return Notification{}, false
	}
	note := *n.current
	n.current = nil
	return note, true
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) emit(note Notification, visible bool) {
	if n.onChange != nil {
		n.onChange(note, visible)
	}
}
