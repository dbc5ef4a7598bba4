package sqldb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aggrandize/agencydesk/core"
)

type PaymentDB struct {
	*sql.DB
	items      *ItemDB // parent item writes share our transactions
	get        *sql.Stmt
	getAll     *sql.Stmt
	insert     *sql.Stmt
	review     *sql.Stmt
	pay        *sql.Stmt
	itemStatus *sql.Stmt
}

const paymentCols = `id, item_id, requested_by, amount, payment_method, status,
	review_notes, reviewed_by, reviewed_at, payment_reference, paid_by, paid_at, created_at`

func NewPaymentDB(db *sql.DB, items *ItemDB) *PaymentDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS processing_payment_requests (
			id INTEGER PRIMARY KEY,
			item_id int NOT NULL,
			requested_by varchar(128) NOT NULL,
			amount decimal(10,2) NOT NULL,
			payment_method varchar(16) NOT NULL
				CHECK (payment_method IN ('wise', 'paypal', 'bank_transfer')),
			status varchar(16) NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'approved', 'rejected', 'paid')),
			review_notes text NOT NULL DEFAULT '',
			reviewed_by varchar(128) NOT NULL DEFAULT '',
			reviewed_at int NOT NULL DEFAULT 0,
			payment_reference varchar(128) NOT NULL DEFAULT '',
			paid_by varchar(128) NOT NULL DEFAULT '',
			paid_at int NOT NULL DEFAULT 0,
			created_at int NOT NULL
		);`)

	var paymentDB = &PaymentDB{}
	paymentDB.DB = db
	paymentDB.items = items
	paymentDB.get = mustPrepare(db, "SELECT "+paymentCols+" FROM processing_payment_requests WHERE id = ? LIMIT 1")
	paymentDB.insert = mustPrepare(db, `INSERT INTO processing_payment_requests
		(item_id, requested_by, amount, payment_method, status, created_at)
		VALUES (?, ?, ?, ?, 'pending', ?)`)
	paymentDB.review = mustPrepare(db, `UPDATE processing_payment_requests
		SET status = ?, review_notes = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ? AND status = 'pending'`)
	paymentDB.pay = mustPrepare(db, `UPDATE processing_payment_requests
		SET status = 'paid', payment_reference = ?, paid_by = ?, paid_at = ?
		WHERE id = ? AND status = 'approved'`)
	paymentDB.itemStatus = mustPrepare(db, `UPDATE order_items
		SET processing_status = ?, updated_at = ?
		WHERE id = ? AND processing_status = ?`)
	return paymentDB
}

func scanPaymentRequest(row interface{ Scan(...interface{}) error }) (*core.PaymentRequest, error) {
	var r = &core.PaymentRequest{}
	err := row.Scan(&r.ID, &r.ItemID, &r.RequestedBy, &r.Amount, &r.PaymentMethod, &r.Status,
		&r.ReviewNotes, &r.ReviewedBy, &r.ReviewedAt, &r.PaymentReference, &r.PaidBy, &r.PaidAt, &r.CreatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return r, nil
}

func (db *PaymentDB) GetPaymentRequest(id int64) (*core.PaymentRequest, error) {
	return scanPaymentRequest(db.get.QueryRow(id))
}

func (db *PaymentDB) GetAllPaymentRequests(status core.PaymentStatus, requestedBy string, limit, offset int) ([]*core.PaymentRequest, error) {

	var where []string
	var args []interface{}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	if requestedBy != "" {
		where = append(where, "requested_by = ?")
		args = append(args, strings.ToLower(requestedBy))
	}

	var query = "SELECT " + paymentCols + " FROM processing_payment_requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.PaymentRequest{}
	for rows.Next() {
		r, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	return all, rows.Err()
}

// CreatePaymentRequest inserts the pending request and moves the parent
// item published → payment_requested in one transaction.
func (db *PaymentDB) CreatePaymentRequest(req *core.PaymentRequest) (int64, error) {

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}

	ts := now()
	res, err := tx.Stmt(db.insert).Exec(req.ItemID, strings.ToLower(req.RequestedBy), req.Amount, string(req.PaymentMethod), ts)
	if err != nil {
		tx.Rollback()
		return 0, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	res, err = tx.Stmt(db.itemStatus).Exec(string(core.StatusPaymentRequested), ts, req.ItemID, string(core.StatusPublished))
	if err != nil {
		tx.Rollback()
		return 0, wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return 0, db.items.transitionErr(req.ItemID)
	}

	return id, tx.Commit()
}

// ReviewPaymentRequest performs pending → approved|rejected. The status
// guard sits in the UPDATE itself, so concurrent reviews cannot both win.
func (db *PaymentDB) ReviewPaymentRequest(id int64, status core.PaymentStatus, notes, reviewedBy string) error {

	res, err := db.review.Exec(string(status), notes, strings.ToLower(reviewedBy), now(), id)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.requestTransitionErr(id)
	}
	return nil
}

// PayPaymentRequest performs approved → paid and moves the parent item
// payment_requested → completed. Both writes commit or neither does.
func (db *PaymentDB) PayPaymentRequest(id int64, reference, paidBy string) error {

	req, err := db.GetPaymentRequest(id)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	ts := now()
	res, err := tx.Stmt(db.pay).Exec(reference, strings.ToLower(paidBy), ts, id)
	if err != nil {
		tx.Rollback()
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return db.requestTransitionErr(id)
	}

	res, err = tx.Stmt(db.itemStatus).Exec(string(core.StatusCompleted), ts, req.ItemID, string(core.StatusPaymentRequested))
	if err != nil {
		tx.Rollback()
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return db.items.transitionErr(req.ItemID)
	}

	return tx.Commit()
}

func (db *PaymentDB) requestTransitionErr(id int64) error {
	req, err := db.GetPaymentRequest(id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: payment request is %s", core.ErrInvalidTransition, req.Status)
}
