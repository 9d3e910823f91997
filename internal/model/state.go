package model

// State - реактивное состояние контроллера конвертации
type State struct {
	Amount     string   `json:"amount"`
	From       Currency `json:"from"`
	To         Currency `json:"to"`
	Result     string   `json:"result"`
	Error      string   `json:"error,omitempty"`
	Loading    bool     `json:"loading"`
	Generation uint64   `json:"generation"`
}

// DisplayKind - какую ветку вывода выбрал рендер
type DisplayKind string

const (
	DisplayLoading DisplayKind = "loading"
	DisplayError   DisplayKind = "error"
	DisplayResult  DisplayKind = "result"
	DisplayPrompt  DisplayKind = "prompt"
)

// Display - производное представление State для области вывода
type Display struct {
	Kind     DisplayKind `json:"kind"`
	Text     string      `json:"text"`
	CanClear bool        `json:"can_clear"`
}
