// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель: упростить формирование структурированных полей лога,
// например, для передачи информации об ошибках.
package sl

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Окружения, от которых зависит формат логов.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Удобно использовать в логировании для единообразного вывода ошибок.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op возвращает атрибут с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}

// SetupLogger создаёт логгер для окружения env: цветной текст для local,
// JSON для dev и prod. Неизвестное окружение трактуется как prod.
func SetupLogger(env string) *slog.Logger {
	return NewLogger(os.Stdout, env)
}

// NewLogger то же, что SetupLogger, но пишет в w.
func NewLogger(w io.Writer, env string) *slog.Logger {
	switch env {
	case EnvLocal:
		return slog.New(log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           log.DebugLevel,
		}))
	case EnvDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
