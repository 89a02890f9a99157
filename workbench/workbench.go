package workbench

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"resortadmin/normalization"
)

// Counts агрегированные счетчики по всем строкам воркбенча.
// Всегда равны сумме по статусам строк.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Ready    int `json:"ready"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
	Checked  int `json:"checked"`
}

// Workbench состояние одной сессии сверки импорта.
// Владелец — один оператор; конкурентный доступ возможен только
// со стороны HTTP-обработчиков, поэтому мьютекс.
type Workbench struct {
	ID         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	CreatedAt  time.Time `json:"created_at"`

	mu   sync.RWMutex
	rows []Row
}

// New создает воркбенч из нормализованных записей
func New(sourceFile string, records []normalization.ResortRecord) *Workbench {
	wb := &Workbench{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		CreatedAt:  time.Now(),
		rows:       make([]Row, 0, len(records)),
	}
	for i, rec := range records {
		wb.rows = append(wb.rows, NewRow(i, rec))
	}
	return wb
}

// Len возвращает количество строк
func (wb *Workbench) Len() int {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	return len(wb.rows)
}

// Row возвращает копию строки по индексу
func (wb *Workbench) Row(index int) (Row, error) {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	if index < 0 || index >= len(wb.rows) {
		return Row{}, fmt.Errorf("row index %d out of range [0, %d)", index, len(wb.rows))
	}
	return wb.rows[index], nil
}

// Rows возвращает копию всех строк
func (wb *Workbench) Rows() []Row {
	wb.mu.RLock()
	defer wb.mu.RUnlock()
	out := make([]Row, len(wb.rows))
	copy(out, wb.rows)
	return out
}

// Apply применяет событие к строке по индексу
func (wb *Workbench) Apply(index int, ev Event) (Row, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if index < 0 || index >= len(wb.rows) {
		return Row{}, fmt.Errorf("row index %d out of range [0, %d)", index, len(wb.rows))
	}
	wb.rows[index] = Reduce(wb.rows[index], ev)
	return wb.rows[index], nil
}

// Counts пересчитывает агрегированные счетчики по всем строкам
func (wb *Workbench) Counts() Counts {
	wb.mu.RLock()
	defer wb.mu.RUnlock()

	var c Counts
	c.Total = len(wb.rows)
	for _, row := range wb.rows {
		switch row.Status {
		case StatusError:
			c.Errors++
		case StatusWarning:
			c.Warnings++
		case StatusReady:
			c.Ready++
		case StatusSkipped:
			c.Skipped++
		}
		if row.Checked {
			c.Checked++
		}
	}
	return c
}

// PushEligible проверяет, разрешена ли запись в базу.
// Push разрешен только когда нет ни одной ошибки, ни одного
// предупреждения и есть хотя бы одна готовая строка. Пропущенные
// строки исключаются из набора записи, но не из счетчиков гейта.
func (wb *Workbench) PushEligible() bool {
	c := wb.Counts()
	return c.Errors == 0 && c.Warnings == 0 && c.Ready > 0
}

// Registry реестр активных воркбенчей по ID сессии
type Registry struct {
	mu         sync.RWMutex
	workbenches map[string]*Workbench
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{
		workbenches: make(map[string]*Workbench),
	}
}

// Put регистрирует воркбенч
func (r *Registry) Put(wb *Workbench) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workbenches[wb.ID] = wb
}

// Get возвращает воркбенч по ID
func (r *Registry) Get(id string) (*Workbench, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wb, ok := r.workbenches[id]
	return wb, ok
}

// Delete удаляет воркбенч (очистка сессии или загрузка нового файла)
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workbenches, id)
}
