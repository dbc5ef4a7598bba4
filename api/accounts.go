package api

import (
	"fmt"
	"net/http"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

func listPaymentRequests(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	status := core.PaymentStatus(req.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", core.ErrValidation, status)
	}

	limit, offset := pagination(req)
	requests, err := ctx.db.GetAllPaymentRequests(status, "", limit, offset)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"paymentRequests": requests})
	return nil
}

// reviewPaymentRequest performs pending → approved|rejected. Anything other
// than a pending request is a 400.
func reviewPaymentRequest(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "requestID")
	if err != nil {
		return err
	}

	request, err := ctx.db.GetPaymentRequest(id)
	if err != nil {
		return err
	}

	var body struct {
		Status      core.PaymentStatus `json:"status"`
		ReviewNotes string             `json:"review_notes"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if err := core.CheckReview(request.Status, body.Status); err != nil {
		return err
	}

	if err := ctx.db.ReviewPaymentRequest(id, body.Status, body.ReviewNotes, ctx.User.Email); err != nil {
		return err
	}

	updated, err := ctx.db.GetPaymentRequest(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"paymentRequest": updated})
	return nil
}

// payPaymentRequest performs approved → paid and completes the parent item
// in the same transaction.
func payPaymentRequest(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "requestID")
	if err != nil {
		return err
	}

	request, err := ctx.db.GetPaymentRequest(id)
	if err != nil {
		return err
	}
	if err := core.CheckPay(request.Status); err != nil {
		return err
	}

	var body struct {
		PaymentReference string `json:"payment_reference"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}

	if err := ctx.db.PayPaymentRequest(id, body.PaymentReference, ctx.User.Email); err != nil {
		return err
	}

	updated, err := ctx.db.GetPaymentRequest(id)
	if err != nil {
		return err
	}
	item, err := ctx.db.GetItem(updated.ItemID)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"paymentRequest": updated, "item": item})
	return nil
}
