package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

type profileWithCaps struct {
	*core.UserProfile
	Capabilities core.Capabilities `json:"capabilities"`
}

func listUserPermissions(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	limit, offset := pagination(req)
	profiles, err := ctx.db.GetAllProfiles(limit, offset)
	if err != nil {
		return err
	}

	var out = make([]profileWithCaps, 0, len(profiles))
	for _, p := range profiles {
		caps, err := p.Capabilities()
		if err != nil {
			// surface the role defaults rather than failing the whole list
			ctx.db.Logger.Warnw("malformed individual_permissions", "user", p.Email, "err", err)
			caps = core.CapabilitiesFor(p.Role)
		}
		out = append(out, profileWithCaps{UserProfile: p, Capabilities: caps})
	}

	respond(w, http.StatusOK, envelope{"users": out})
	return nil
}

func updateUserPermissions(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}

	profile, err := ctx.db.GetProfile(id)
	if err != nil {
		return err
	}

	var body struct {
		Role *core.Role `json:"role"`
		// json.RawMessage keeps an explicit null distinguishable from an
		// absent field, null clears the override
		IndividualPermissions json.RawMessage `json:"individualPermissions"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}

	role := profile.Role
	if body.Role != nil {
		if !body.Role.Valid() {
			return fmt.Errorf("%w: unknown role %q", core.ErrValidation, *body.Role)
		}
		role = *body.Role
	}

	override := profile.IndividualPermissions
	if body.IndividualPermissions != nil {
		override = string(body.IndividualPermissions)
		if override == "null" {
			override = ""
		} else if _, err := core.ApplyOverride(core.CapabilitiesFor(role), override); err != nil {
			return err
		}
	}

	if err := ctx.db.UpdatePermissions(id, role, override); err != nil {
		return err
	}

	updated, err := ctx.db.GetProfile(id)
	if err != nil {
		return err
	}
	caps, err := updated.Capabilities()
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"user": profileWithCaps{UserProfile: updated, Capabilities: caps}})
	return nil
}
