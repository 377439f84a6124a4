package wire

import "time"

// UIText is a message attached to a flow or one of its nodes.
type UIText struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type UINodeAttributes struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type UINode struct {
	Type       string           `json:"type"`
	Group      string           `json:"group"`
	Attributes UINodeAttributes `json:"attributes"`
	Messages   []UIText         `json:"messages"`
}

type UIContainer struct {
	Action   string   `json:"action"`
	Method   string   `json:"method"`
	Nodes    []UINode `json:"nodes"`
	Messages []UIText `json:"messages,omitempty"`
}

type LoginFlow struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	IssuedAt  time.Time   `json:"issued_at"`
	ExpiresAt time.Time   `json:"expires_at"`
	UI        UIContainer `json:"ui"`
}

type LoginRequest struct {
	Method     string `json:"method"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type IdentityTraits struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
}

type Identity struct {
	ID     string         `json:"id"`
	Traits IdentityTraits `json:"traits"`
}

type Session struct {
	ID              string    `json:"id"`
	Active          bool      `json:"active"`
	AuthenticatedAt time.Time `json:"authenticated_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	Identity        Identity  `json:"identity"`
}

type LoginResponse struct {
	Session Session `json:"session"`
}

// IdentityErrorBody mirrors the generic error object of the identity service.
type IdentityErrorBody struct {
	ID      string `json:"id,omitempty"`
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// IdentityError is written on identity failures. Flow errors carry UI so the
// form can be re-rendered with messages attached.
type IdentityError struct {
	Error IdentityErrorBody `json:"error"`
	UI    *UIContainer      `json:"ui,omitempty"`
}
