package validation

import (
	"sync"
	"time"
)

// DefaultDebounce é o intervalo padrão entre a digitação e a validação ao vivo,
// para não sinalizar erro a cada tecla.
const DefaultDebounce = 100 * time.Millisecond

// Debouncer é uma tarefa agendada cancelável, amarrada ao ciclo de vida do
// input que a dispara. Deve ser cancelada no unmount/cancelamento da seção
// para evitar que uma validação obsoleta dispare depois do formulário
// ter sido abandonado.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer cria um Debouncer com o atraso informado.
// Atraso não-positivo cai no DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger agenda fn para rodar após o atraso configurado.
// Um Trigger subsequente antes do disparo cancela o agendamento anterior:
// apenas a última edição gera validação.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel descarta qualquer execução pendente.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
