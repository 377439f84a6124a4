package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
)

// Message ids follow the identity service's numbering for the cases the
// portal surfaces.
const (
	msgGeneric            int64 = 4000001
	msgFieldRequired      int64 = 4000002
	msgInvalidCredentials int64 = 4000006
	msgFlowExpired        int64 = 4010001
)

func messageID(code string) int64 {
	switch code {
	case portal.CodeInvalidCredentials:
		return msgInvalidCredentials
	case portal.CodeFlowExpired:
		return msgFlowExpired
	default:
		return msgGeneric
	}
}

func (s *Server) CreateLoginFlow(w http.ResponseWriter, r *http.Request) {
	flow := s.Portal.CreateLoginFlow(r.Context())
	writeJSON(w, http.StatusOK, loginFlowToWire(flow, nil))
}

func (s *Server) GetLoginFlow(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	flow, err := s.Portal.GetLoginFlow(r.Context(), id)
	if err != nil {
		s.identityFail(w, r, flow, err)
		return
	}
	writeJSON(w, http.StatusOK, loginFlowToWire(flow, nil))
}

func (s *Server) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	flowID := r.URL.Query().Get("flow")
	var body wire.LoginRequest
	if err := decodeJSON(r, &body); err != nil {
		s.identityFail(w, r, portal.LoginFlow{ID: flowID}, err)
		return
	}
	if body.Method != "" && body.Method != "password" {
		s.identityFail(w, r, portal.LoginFlow{ID: flowID}, &portal.Error{
			Status:  http.StatusBadRequest,
			Code:    portal.CodeValidation,
			Message: "unsupported login method",
			Details: map[string]any{"method": "Only the password method is supported."},
		})
		return
	}

	sess, err := s.Portal.SubmitLogin(r.Context(), flowID, body.Identifier, body.Password)
	if err != nil {
		flow, _ := s.Portal.GetLoginFlow(r.Context(), flowID)
		if flow.ID == "" {
			flow.ID = flowID
		}
		s.identityFail(w, r, flow, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, wire.LoginResponse{Session: sessionToWire(sess)})
}

func (s *Server) WhoAmI(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(SessionCookieName); err == nil {
		token = c.Value
	}
	sess, err := s.Portal.WhoAmI(r.Context(), token)
	if err != nil {
		s.identityFail(w, r, portal.LoginFlow{}, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToWire(sess))
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(SessionCookieName); err == nil {
		token = c.Value
	}
	if err := s.Portal.Logout(r.Context(), token); err != nil {
		s.identityFail(w, r, portal.LoginFlow{}, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// identityFail writes identity-service shaped errors. Field problems are
// attached to the matching form nodes; everything else becomes a flow-level
// message.
func (s *Server) identityFail(w http.ResponseWriter, r *http.Request, flow portal.LoginFlow, err error) {
	ae := (*portal.Error)(nil)
	if !errors.As(err, &ae) {
		s.fail(w, r, err)
		return
	}

	body := wire.IdentityError{Error: wire.IdentityErrorBody{
		ID:      strings.ToLower(ae.Code),
		Code:    ae.Status,
		Status:  http.StatusText(ae.Status),
		Message: ae.Message,
	}}
	if flow.ID != "" {
		ui := loginUI(flow.ID, ae.Details)
		if len(ae.Details) == 0 {
			ui.Messages = []wire.UIText{{ID: messageID(ae.Code), Type: "error", Text: ae.Message}}
		}
		body.UI = &ui
	} else {
		body.Error.Reason = ae.Message
	}
	writeJSON(w, ae.Status, body)
}

func loginUI(flowID string, details map[string]any) wire.UIContainer {
	node := func(name, typ string, required bool) wire.UINode {
		n := wire.UINode{
			Type:       "input",
			Group:      "password",
			Attributes: wire.UINodeAttributes{Name: name, Type: typ, Required: required},
			Messages:   []wire.UIText{},
		}
		if msg, ok := details[name]; ok {
			n.Messages = append(n.Messages, wire.UIText{ID: msgFieldRequired, Type: "error", Text: toText(msg)})
		}
		return n
	}
	nodes := []wire.UINode{
		node("identifier", "text", true),
		node("password", "password", true),
		{
			Type:       "input",
			Group:      "password",
			Attributes: wire.UINodeAttributes{Name: "method", Type: "submit", Value: "password"},
			Messages:   []wire.UIText{},
		},
	}

	// Details on unknown fields still surface, on the submit node.
	var extra []string
	for k := range details {
		if k != "identifier" && k != "password" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		nodes[2].Messages = append(nodes[2].Messages, wire.UIText{ID: msgFieldRequired, Type: "error", Text: toText(details[k])})
	}

	return wire.UIContainer{
		Action: "/identity/self-service/login?flow=" + flowID,
		Method: http.MethodPost,
		Nodes:  nodes,
	}
}

func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func loginFlowToWire(f portal.LoginFlow, details map[string]any) wire.LoginFlow {
	return wire.LoginFlow{
		ID:        f.ID,
		Type:      "browser",
		IssuedAt:  f.IssuedAt,
		ExpiresAt: f.ExpiresAt,
		UI:        loginUI(f.ID, details),
	}
}

func sessionToWire(sess portal.Session) wire.Session {
	a := sess.Identity
	return wire.Session{
		ID:              sess.ID,
		Active:          sess.Active,
		AuthenticatedAt: sess.AuthenticatedAt,
		ExpiresAt:       sess.ExpiresAt,
		Identity: wire.Identity{
			ID: string(a.Subject),
			Traits: wire.IdentityTraits{
				Email:     a.Email,
				FirstName: a.FirstName,
				LastName:  a.LastName,
				ProfileID: string(a.ProfileID),
			},
		},
	}
}
