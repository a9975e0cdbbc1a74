package log

import (
	"log/slog"

	"github.com/kode4food/docket/pkg/api"
)

func CaseID(id int64) slog.Attr {
	return slog.Int64("case_id", id)
}

func SourceID(id api.SourceID) slog.Attr {
	return slog.String("source_id", string(id))
}

func Role(role api.RoleCode) slog.Attr {
	return slog.String("role", string(role))
}

func Action(action api.ActionType) slog.Attr {
	return slog.String("action", string(action))
}

func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

func Token(token int64) slog.Attr {
	return slog.Int64("token", token)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}
