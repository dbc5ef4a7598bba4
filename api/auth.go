package api

import (
	"net/http"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

func login(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.Email == "" || body.Password == "" {
		return core.ErrUnauthorized
	}

	if err := ctx.Login(body.Email, body.Password); err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{
		"user":         ctx.User,
		"capabilities": ctx.Capabilities(),
	})
	return nil
}

func logout(w http.ResponseWriter, _ *http.Request, ctx *context, _ httprouter.Params) error {
	ctx.Logout()
	respond(w, http.StatusOK, nil)
	return nil
}

func me(w http.ResponseWriter, _ *http.Request, ctx *context, _ httprouter.Params) error {
	respond(w, http.StatusOK, envelope{
		"user":         ctx.User,
		"capabilities": ctx.Capabilities(),
	})
	return nil
}
