package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

// worklist returns the caller's assigned items; admins see everything.
func worklist(w http.ResponseWriter, _ *http.Request, ctx *context, _ httprouter.Params) error {

	assignee := ctx.User.Email
	if ctx.User.IsAdmin() {
		assignee = ""
	}

	items, err := ctx.db.Worklist(assignee)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"items": items})
	return nil
}

func processingStats(w http.ResponseWriter, _ *http.Request, ctx *context, _ httprouter.Params) error {

	counts, err := ctx.db.StatusCounts()
	if err != nil {
		return err
	}

	// every status appears, zero included, so dashboards need no fallback
	stats := map[core.ProcessingStatus]int{}
	for _, s := range []core.ProcessingStatus{
		core.StatusNotStarted, core.StatusInProgress, core.StatusContentWriting,
		core.StatusPendingApproval, core.StatusApproved, core.StatusRejected,
		core.StatusPublishing, core.StatusPublished, core.StatusPaymentRequested,
		core.StatusCompleted,
	} {
		stats[s] = counts[s]
	}

	respond(w, http.StatusOK, envelope{"stats": stats})
	return nil
}

// updateItem is the generic partial update. A requested status change is
// validated against the shared transition table, there is no free-form jump.
func updateItem(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}
	if err := ctx.RequireItemAssignee(id); err != nil {
		return err
	}

	item, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	var upd core.ItemUpdate
	if err := decodeBody(req, &upd); err != nil {
		return err
	}

	if upd.ProcessingStatus != nil {
		contentURL := item.ContentURL
		if upd.ContentURL != nil {
			contentURL = *upd.ContentURL
		}
		if err := core.CheckTransition(item.ProcessingStatus, *upd.ProcessingStatus, contentURL, item.LiveURL); err != nil {
			return err
		}
	}

	if err := ctx.db.UpdateItem(id, upd); err != nil {
		return err
	}

	updated, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"item": updated})
	return nil
}

// assignItem is admin-only: it hands an item to a processing member.
func assignItem(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.User.IsAdmin() {
		return fmt.Errorf("%w: only admins can assign items", core.ErrForbidden)
	}

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}
	if _, err := ctx.db.GetItem(id); err != nil {
		return err
	}

	var body struct {
		AssignedTo string        `json:"assignedTo"`
		Priority   core.Priority `json:"priority"`
		DueDate    string        `json:"dueDate"`
		Notes      string        `json:"notes"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.AssignedTo) == "" {
		return fmt.Errorf("%w: assignedTo is required", core.ErrValidation)
	}

	assignment := &core.Assignment{
		ItemID:     id,
		AssignedTo: strings.TrimSpace(body.AssignedTo),
		Priority:   body.Priority,
		DueDate:    body.DueDate,
		Notes:      body.Notes,
	}
	if err := ctx.db.UpsertAssignment(assignment); err != nil {
		return err
	}

	stored, err := ctx.db.GetAssignment(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"assignment": stored})
	return nil
}

// submitApproval moves an item to pending_approval. Fails with 400 when no
// content URL is on file, regardless of caller role.
func submitApproval(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}
	if err := ctx.RequireItemAssignee(id); err != nil {
		return err
	}

	item, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}
	if err := core.CheckTransition(item.ProcessingStatus, core.StatusPendingApproval, item.ContentURL, item.LiveURL); err != nil {
		return err
	}

	if err := ctx.db.SubmitApproval(id, item.ProcessingStatus); err != nil {
		return err
	}

	updated, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"item": updated})
	return nil
}

// reviewContent is the admin approval step: pending_approval → approved or
// rejected.
func reviewContent(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.User.IsAdmin() {
		return fmt.Errorf("%w: only admins can review content", core.ErrForbidden)
	}

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}

	item, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	var body struct {
		Status core.ProcessingStatus `json:"status"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.Status != core.StatusApproved && body.Status != core.StatusRejected {
		return fmt.Errorf("%w: review status must be approved or rejected", core.ErrValidation)
	}
	if err := core.CheckTransition(item.ProcessingStatus, body.Status, item.ContentURL, item.LiveURL); err != nil {
		return err
	}

	if err := ctx.db.ReviewContent(id, body.Status); err != nil {
		return err
	}

	updated, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"item": updated})
	return nil
}

// submitLive records the live URL and moves the item to published.
func submitLive(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}
	if err := ctx.RequireItemAssignee(id); err != nil {
		return err
	}

	var body struct {
		LiveURL string `json:"liveUrl"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.LiveURL) == "" {
		return fmt.Errorf("%w: liveUrl is required", core.ErrValidation)
	}

	item, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}
	if err := core.CheckTransition(item.ProcessingStatus, core.StatusPublished, item.ContentURL, body.LiveURL); err != nil {
		return err
	}

	if err := ctx.db.SubmitLive(id, item.ProcessingStatus, strings.TrimSpace(body.LiveURL), ctx.User.Email); err != nil {
		return err
	}

	updated, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"item": updated})
	return nil
}

// requestPayment creates a pending payment request and moves the item to
// payment_requested, atomically.
func requestPayment(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "itemID")
	if err != nil {
		return err
	}
	if err := ctx.RequireItemAssignee(id); err != nil {
		return err
	}

	var body struct {
		Amount        float64            `json:"amount"`
		PaymentMethod core.PaymentMethod `json:"payment_method"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if body.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", core.ErrValidation)
	}
	if !body.PaymentMethod.Valid() {
		return fmt.Errorf("%w: payment_method must be wise, paypal or bank_transfer", core.ErrValidation)
	}

	if _, err := ctx.db.GetItem(id); err != nil {
		return err
	}

	request := &core.PaymentRequest{
		ItemID:        id,
		RequestedBy:   ctx.User.Email,
		Amount:        body.Amount,
		PaymentMethod: body.PaymentMethod,
	}
	requestID, err := ctx.db.CreatePaymentRequest(request)
	if err != nil {
		return err
	}

	created, err := ctx.db.GetPaymentRequest(requestID)
	if err != nil {
		return err
	}
	item, err := ctx.db.GetItem(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusCreated, envelope{"paymentRequest": created, "item": item})
	return nil
}
