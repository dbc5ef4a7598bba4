package api

import (
	"fmt"
	"net/http"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

// The finance endpoints are plain CRUD over independent tables. Updates
// decode over the stored record, so absent fields keep their value.

func listExpenses(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	limit, offset := pagination(req)
	expenses, err := ctx.db.GetAllExpenses(limit, offset)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"expenses": expenses})
	return nil
}

func createExpense(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	var e core.Expense
	if err := decodeBody(req, &e); err != nil {
		return err
	}
	if e.Date == "" || e.Category == "" {
		return fmt.Errorf("%w: date and category are required", core.ErrValidation)
	}
	id, err := ctx.db.InsertExpense(&e)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetExpense(id)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, envelope{"expense": created})
	return nil
}

func updateExpense(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	e, err := ctx.db.GetExpense(id)
	if err != nil {
		return err
	}
	if err := decodeBody(req, e); err != nil {
		return err
	}
	e.ID = id
	if err := ctx.db.UpdateExpense(e); err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"expense": e})
	return nil
}

func deleteExpense(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteExpense(id); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil)
	return nil
}

func listUtilityBills(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	limit, offset := pagination(req)
	bills, err := ctx.db.GetAllUtilityBills(limit, offset)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"utilityBills": bills})
	return nil
}

func createUtilityBill(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	var b core.UtilityBill
	if err := decodeBody(req, &b); err != nil {
		return err
	}
	if b.Provider == "" || b.BillMonth == "" {
		return fmt.Errorf("%w: provider and billMonth are required", core.ErrValidation)
	}
	id, err := ctx.db.InsertUtilityBill(&b)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetUtilityBill(id)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, envelope{"utilityBill": created})
	return nil
}

func updateUtilityBill(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	b, err := ctx.db.GetUtilityBill(id)
	if err != nil {
		return err
	}
	if err := decodeBody(req, b); err != nil {
		return err
	}
	b.ID = id
	if err := ctx.db.UpdateUtilityBill(b); err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"utilityBill": b})
	return nil
}

func deleteUtilityBill(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteUtilityBill(id); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil)
	return nil
}

func listSubscriptions(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	limit, offset := pagination(req)
	subs, err := ctx.db.GetAllSubscriptions(limit, offset)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"subscriptions": subs})
	return nil
}

func createSubscription(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	var s core.Subscription
	if err := decodeBody(req, &s); err != nil {
		return err
	}
	if s.Service == "" {
		return fmt.Errorf("%w: service is required", core.ErrValidation)
	}
	if s.RenewalDay < 1 || s.RenewalDay > 31 {
		return fmt.Errorf("%w: renewalDay must be between 1 and 31", core.ErrValidation)
	}
	id, err := ctx.db.InsertSubscription(&s)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetSubscription(id)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, envelope{"subscription": created})
	return nil
}

func updateSubscription(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	s, err := ctx.db.GetSubscription(id)
	if err != nil {
		return err
	}
	if err := decodeBody(req, s); err != nil {
		return err
	}
	s.ID = id
	if s.RenewalDay < 1 || s.RenewalDay > 31 {
		return fmt.Errorf("%w: renewalDay must be between 1 and 31", core.ErrValidation)
	}
	if err := ctx.db.UpdateSubscription(s); err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"subscription": s})
	return nil
}

func deleteSubscription(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteSubscription(id); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil)
	return nil
}

func listSalaryPayments(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	limit, offset := pagination(req)
	payments, err := ctx.db.GetAllSalaryPayments(limit, offset)
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"salaryPayments": payments})
	return nil
}

func createSalaryPayment(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {
	var p core.SalaryPayment
	if err := decodeBody(req, &p); err != nil {
		return err
	}
	if p.Employee == "" || p.Month == "" {
		return fmt.Errorf("%w: employee and month are required", core.ErrValidation)
	}
	id, err := ctx.db.InsertSalaryPayment(&p)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetSalaryPayment(id)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, envelope{"salaryPayment": created})
	return nil
}

func updateSalaryPayment(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	p, err := ctx.db.GetSalaryPayment(id)
	if err != nil {
		return err
	}
	if err := decodeBody(req, p); err != nil {
		return err
	}
	p.ID = id
	if err := ctx.db.UpdateSalaryPayment(p); err != nil {
		return err
	}
	respond(w, http.StatusOK, envelope{"salaryPayment": p})
	return nil
}

func deleteSalaryPayment(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {
	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteSalaryPayment(id); err != nil {
		return err
	}
	respond(w, http.StatusOK, nil)
	return nil
}
