package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

type textRequest struct {
	Text string `json:"text"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type mfaRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

type ssoRequest struct {
	Provider string `json:"provider"`
	Email    string `json:"email"`
}

type tagRequest struct {
	Name string `json:"name"`
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// filterFromQuery maps query parameters onto an EntryFilter. Dates accept
// RFC 3339 or YYYY-MM-DD; a date-only "to" covers the whole day.
func filterFromQuery(q map[string][]string) (journal.EntryFilter, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	f := journal.EntryFilter{
		Search:    get("search"),
		Sentiment: journal.SentimentCategory(get("sentiment")),
		SortBy:    journal.SortOrder(get("sort_by")),
	}
	if tags := get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	var err error
	if v := get("from"); v != "" {
		if f.DateRange.From, _, err = parseDate(v); err != nil {
			return f, err
		}
	}
	if v := get("to"); v != "" {
		to, dateOnly, err := parseDate(v)
		if err != nil {
			return f, err
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.DateRange.To = to
	}
	for key, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		if v := get(key); v != "" {
			if *dst, err = strconv.Atoi(v); err != nil {
				return f, fmt.Errorf("%w: %s must be an integer", journal.ErrInvalidFilter, key)
			}
		}
	}
	return f, nil
}

func parseDate(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: invalid date %q", journal.ErrInvalidFilter, v)
	}
	return t, true, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := s.svc.Entries.GetEntries(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var draft journal.EntryDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	e, err := s.svc.Entries.CreateEntry(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := s.svc.Entries.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch journal.EntryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	e, err := s.svc.Entries.UpdateEntry(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Entries.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Entries.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Entries.Templates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Entries.CreateFromTemplate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.svc.Tags.GetTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.svc.Tags.CreateTag(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tags.DeleteTag(r.Context(), mux.Vars(r)["name"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.svc.AI.AnalyzeText(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "n must be an integer"})
			return
		}
	}
	gen, err := s.svc.AI.WritingPrompts(r.Context(), n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	gen, err := s.svc.AI.Suggest(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in journal.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sess, err := s.svc.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req mfaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.svc.Auth.VerifyMFA(r.Context(), req.ChallengeID, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleSSO(w http.ResponseWriter, r *http.Request) {
	var req ssoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.svc.Auth.SSOLogin(r.Context(), req.Provider, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Reminders.List(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var in journal.ReminderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rem, err := s.svc.Reminders.Create(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rem)
}

// ownedReminder resolves the {id} path variable to a reminder of the caller.
// Reminders of other users are reported as missing.
func (s *Server) ownedReminder(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return uuid.Nil, false
	}
	if err := s.checkReminderOwner(r.Context(), userFrom(r.Context()).ID, id); err != nil {
		writeError(w, err)
		return uuid.Nil, false
	}
	return id, true
}

// checkReminderOwner reports ErrReminderNotFound unless userID owns reminder id.
func (s *Server) checkReminderOwner(ctx context.Context, userID, id uuid.UUID) error {
	list, err := s.svc.Reminders.List(ctx, userID)
	if err != nil {
		return err
	}
	for _, rem := range list {
		if rem.ID == id {
			return nil
		}
	}
	return journal.ErrReminderNotFound
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownedReminder(w, r)
	if !ok {
		return
	}
	var patch journal.ReminderPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	rem, err := s.svc.Reminders.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownedReminder(w, r)
	if !ok {
		return
	}
	if err := s.svc.Reminders.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNextReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := s.ownedReminder(w, r)
	if !ok {
		return
	}
	next, err := s.svc.Reminders.Next(r.Context(), id, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]time.Time{"next": next})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Preferences.Get(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch journal.PreferencesPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := s.svc.Preferences.Update(r.Context(), userFrom(r.Context()).ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleResetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Preferences.Reset(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleInvoke calls any registered operation. The body is a JSON array of
// positional arguments.
// invokeScope says how the first argument of a user-scoped invoke method
// names its owner.
type invokeScope int

const (
	scopeUser invokeScope = iota + 1
	scopeReminder
)

var invokeScopes = map[string]invokeScope{
	"reminders.getReminders":        scopeUser,
	"reminders.createReminder":      scopeUser,
	"reminders.updateReminder":      scopeReminder,
	"reminders.deleteReminder":      scopeReminder,
	"reminders.nextReminder":        scopeReminder,
	"preferences.getPreferences":    scopeUser,
	"preferences.updatePreferences": scopeUser,
	"preferences.resetPreferences":  scopeUser,
}

// userServices are only reachable through invoke by their signed-in owner.
var userServices = map[string]bool{"reminders": true, "preferences": true}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	service, method := vars["service"], vars["method"]
	if _, err := s.reg.Lookup(service, method); err != nil {
		writeError(w, err)
		return
	}

	var raw []json.RawMessage
	if !decodeJSON(w, r, &raw) {
		return
	}
	args := make([]any, len(raw))
	for i, a := range raw {
		args[i] = a
	}
	if err := s.authorizeInvoke(r, service, method, args); err != nil {
		writeError(w, err)
		return
	}

	out, err := s.reg.Call(r.Context(), service, method, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// authorizeInvoke requires a bearer token for user-scoped methods and checks
// that the user or reminder named in args belongs to the caller.
func (s *Server) authorizeInvoke(r *http.Request, service, method string, args []any) error {
	scope, scoped := invokeScopes[invoke.Name(service, method)]
	if !scoped {
		if userServices[service] {
			return errForbidden
		}
		return nil
	}
	u, err := s.authenticate(r)
	if err != nil {
		return err
	}
	id, err := invoke.Arg[uuid.UUID](args, 0)
	if err != nil {
		return err
	}
	switch scope {
	case scopeUser:
		if id != u.ID {
			return errForbidden
		}
	case scopeReminder:
		return s.checkReminderOwner(r.Context(), u.ID, id)
	}
	return nil
}
