package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aggrandize/agencydesk/core"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

func listOrders(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	status := core.OrderStatus(req.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", core.ErrValidation, status)
	}

	limit, offset := pagination(req)
	orders, err := ctx.db.GetAllOrders(status, limit, offset)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"orders": orders})
	return nil
}

type orderItemBody struct {
	Website       string `json:"website"`
	Keyword       string `json:"keyword"`
	ClientURL     string `json:"clientUrl"`
	PublicationID int64  `json:"publicationId"`
}

func (b orderItemBody) toItem(orderID int64) (*core.OrderItem, error) {
	if strings.TrimSpace(b.Website) == "" {
		return nil, fmt.Errorf("%w: item website is required", core.ErrValidation)
	}
	return &core.OrderItem{
		OrderID:       orderID,
		Website:       strings.TrimSpace(b.Website),
		Keyword:       b.Keyword,
		ClientURL:     b.ClientURL,
		PublicationID: b.PublicationID,
	}, nil
}

func createOrder(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	var body struct {
		OrderNumber string          `json:"orderNumber"`
		ClientName  string          `json:"clientName"`
		AssignedTo  string          `json:"assignedTo"`
		DueDate     string          `json:"dueDate"`
		Items       []orderItemBody `json:"items"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", core.ErrValidation)
	}
	if body.OrderNumber == "" {
		body.OrderNumber = "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	}

	order := &core.Order{
		OrderNumber: body.OrderNumber,
		ClientName:  strings.TrimSpace(body.ClientName),
		AssignedTo:  strings.ToLower(body.AssignedTo),
		DueDate:     body.DueDate,
		Status:      core.OrderActive,
	}

	id, err := ctx.db.InsertOrder(order)
	if err != nil {
		return err
	}

	for _, ib := range body.Items {
		item, err := ib.toItem(id)
		if err != nil {
			return err
		}
		if _, err := ctx.db.InsertItem(item); err != nil {
			return err
		}
	}

	created, err := ctx.db.GetOrder(id)
	if err != nil {
		return err
	}
	items, err := ctx.db.ItemsForOrder(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusCreated, envelope{"order": created, "items": items})
	return nil
}

func getOrder(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}

	order, err := ctx.db.GetOrder(id)
	if err != nil {
		return err
	}
	items, err := ctx.db.ItemsForOrder(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"order": order, "items": items})
	return nil
}

func updateOrder(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}

	order, err := ctx.db.GetOrder(id)
	if err != nil {
		return err
	}

	var body struct {
		ClientName *string `json:"clientName"`
		AssignedTo *string `json:"assignedTo"`
		DueDate    *string `json:"dueDate"`
		Status     *string `json:"status"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}

	if body.ClientName != nil {
		order.ClientName = strings.TrimSpace(*body.ClientName)
	}
	if body.AssignedTo != nil {
		order.AssignedTo = strings.ToLower(*body.AssignedTo)
	}
	if body.DueDate != nil {
		order.DueDate = *body.DueDate
	}
	if body.Status != nil {
		status := core.OrderStatus(*body.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: unknown order status %q", core.ErrValidation, status)
		}
		order.Status = status
	}

	if err := ctx.db.UpdateOrder(order); err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"order": order})
	return nil
}

func deleteOrder(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteOrder(id); err != nil {
		return err
	}

	respond(w, http.StatusOK, nil)
	return nil
}

func addOrderItem(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if _, err := ctx.db.GetOrder(id); err != nil {
		return err
	}

	var body orderItemBody
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	item, err := body.toItem(id)
	if err != nil {
		return err
	}

	itemID, err := ctx.db.InsertItem(item)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetItem(itemID)
	if err != nil {
		return err
	}

	respond(w, http.StatusCreated, envelope{"item": created})
	return nil
}
