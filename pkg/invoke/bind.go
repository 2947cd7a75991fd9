package invoke

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

// Ack is returned by operations that produce no value.
type Ack struct {
	Success bool `json:"success"`
}

// Bind registers every journal operation on r under its service.method name.
func Bind(r *Registry, svc *journal.Services) {
	r.Register("entries", "getEntries", func(ctx context.Context, args []any) (any, error) {
		filter, err := OptArg[journal.EntryFilter](args, 0)
		if err != nil {
			return nil, err
		}
		v, err := svc.Entries.GetEntries(ctx, filter)
		return result(v, err)
	})
	r.Register("entries", "getEntry", call1(svc.Entries.GetEntry))
	r.Register("entries", "createEntry", call1(svc.Entries.CreateEntry))
	r.Register("entries", "updateEntry", call2(svc.Entries.UpdateEntry))
	r.Register("entries", "deleteEntry", ack1(svc.Entries.DeleteEntry))
	r.Register("entries", "getStats", call0(svc.Entries.GetStats))
	r.Register("entries", "getTemplates", call0(svc.Entries.Templates))
	r.Register("entries", "createFromTemplate", call1(svc.Entries.CreateFromTemplate))

	r.Register("tags", "getTags", call0(svc.Tags.GetTags))
	r.Register("tags", "createTag", call1(svc.Tags.CreateTag))
	r.Register("tags", "deleteTag", ack1(svc.Tags.DeleteTag))

	r.Register("ai", "analyzeText", call1(svc.AI.AnalyzeText))
	r.Register("ai", "getPrompts", func(ctx context.Context, args []any) (any, error) {
		n, err := OptArg[int](args, 0)
		if err != nil {
			return nil, err
		}
		v, err := svc.AI.WritingPrompts(ctx, n)
		return result(v, err)
	})
	r.Register("ai", "suggest", call1(svc.AI.Suggest))

	r.Register("auth", "login", call2(svc.Auth.Login))
	r.Register("auth", "register", call1(svc.Auth.Register))
	r.Register("auth", "verifyMfa", call2(svc.Auth.VerifyMFA))
	r.Register("auth", "ssoLogin", call2(svc.Auth.SSOLogin))
	r.Register("auth", "me", call1(svc.Auth.Authenticate))

	r.Register("reminders", "getReminders", call1(svc.Reminders.List))
	r.Register("reminders", "createReminder", call2(svc.Reminders.Create))
	r.Register("reminders", "updateReminder", call2(svc.Reminders.Update))
	r.Register("reminders", "deleteReminder", ack1(svc.Reminders.Delete))
	r.Register("reminders", "nextReminder", func(ctx context.Context, args []any) (any, error) {
		id, err := Arg[uuid.UUID](args, 0)
		if err != nil {
			return nil, err
		}
		from, err := OptArg[time.Time](args, 1)
		if err != nil {
			return nil, err
		}
		if from.IsZero() {
			from = time.Now()
		}
		v, err := svc.Reminders.Next(ctx, id, from)
		return result(v, err)
	})

	r.Register("preferences", "getPreferences", call1(svc.Preferences.Get))
	r.Register("preferences", "updatePreferences", call2(svc.Preferences.Update))
	r.Register("preferences", "resetPreferences", call1(svc.Preferences.Reset))
}

// result drops the zero value that accompanies an error.
func result[R any](v R, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func call0[R any](fn func(context.Context) (R, error)) Handler {
	return func(ctx context.Context, _ []any) (any, error) {
		v, err := fn(ctx)
		return result(v, err)
	}
}

func call1[A, R any](fn func(context.Context, A) (R, error)) Handler {
	return func(ctx context.Context, args []any) (any, error) {
		a, err := Arg[A](args, 0)
		if err != nil {
			return nil, err
		}
		v, err := fn(ctx, a)
		return result(v, err)
	}
}

func call2[A, B, R any](fn func(context.Context, A, B) (R, error)) Handler {
	return func(ctx context.Context, args []any) (any, error) {
		a, err := Arg[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := Arg[B](args, 1)
		if err != nil {
			return nil, err
		}
		v, err := fn(ctx, a, b)
		return result(v, err)
	}
}

func ack1[A any](fn func(context.Context, A) error) Handler {
	return func(ctx context.Context, args []any) (any, error) {
		a, err := Arg[A](args, 0)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, a); err != nil {
			return nil, err
		}
		return Ack{Success: true}, nil
	}
}
