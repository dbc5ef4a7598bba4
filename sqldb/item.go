package sqldb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/aggrandize/agencydesk/core"
)

type ItemDB struct {
	*sql.DB
	get             *sql.Stmt
	forOrder        *sql.Stmt
	insert          *sql.Stmt
	statusCounts    *sql.Stmt
	submitApproval  *sql.Stmt
	reviewContent   *sql.Stmt
	submitLive      *sql.Stmt
	getAssignment   *sql.Stmt
	setAssignment   *sql.Stmt
	worklistAll     *sql.Stmt
	worklistForUser *sql.Stmt
}

const itemCols = `id, order_id, website, keyword, client_url, publication_id,
	processing_status, content_url, content_notes, live_url, live_date,
	approval_requested_at, live_submitted_by, live_submitted_at, created_at, updated_at`

const worklistSelect = `SELECT i.id, i.order_id, i.website, i.keyword, i.client_url, i.publication_id,
		i.processing_status, i.content_url, i.content_notes, i.live_url, i.live_date,
		i.approval_requested_at, i.live_submitted_by, i.live_submitted_at, i.created_at, i.updated_at,
		o.order_number, o.client_name,
		COALESCE(a.assigned_to, ''), COALESCE(a.priority, ''), COALESCE(a.due_date, ''),
		COALESCE(w.base_price, 0)
	FROM order_items i
	JOIN orders o ON o.id = i.order_id
	LEFT JOIN order_item_assignments a ON a.item_id = i.id
	LEFT JOIN website_inventory w ON w.id = i.publication_id`

func NewItemDB(db *sql.DB) *ItemDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY,
			order_id int NOT NULL,
			website varchar(255) NOT NULL,
			keyword varchar(255) NOT NULL DEFAULT '',
			client_url varchar(512) NOT NULL DEFAULT '',
			publication_id int NOT NULL DEFAULT 0,
			processing_status varchar(32) NOT NULL DEFAULT 'not_started'
				CHECK (processing_status IN ('not_started', 'in_progress', 'content_writing',
					'pending_approval', 'approved', 'rejected', 'publishing', 'published',
					'payment_requested', 'completed')),
			content_url varchar(512) NOT NULL DEFAULT '',
			content_notes text NOT NULL DEFAULT '',
			live_url varchar(512) NOT NULL DEFAULT '',
			live_date varchar(10) NOT NULL DEFAULT '',
			approval_requested_at int NOT NULL DEFAULT 0,
			live_submitted_by varchar(128) NOT NULL DEFAULT '',
			live_submitted_at int NOT NULL DEFAULT 0,
			created_at int NOT NULL,
			updated_at int NOT NULL
		);`)

	db.Exec(
		`CREATE TABLE IF NOT EXISTS order_item_assignments (
			item_id INTEGER PRIMARY KEY,
			assigned_to varchar(128) NOT NULL,
			priority varchar(8) NOT NULL DEFAULT 'normal'
				CHECK (priority IN ('low', 'normal', 'high', 'urgent')),
			due_date varchar(10) NOT NULL DEFAULT '',
			notes text NOT NULL DEFAULT '',
			created_at int NOT NULL,
			updated_at int NOT NULL
		);`)

	var itemDB = &ItemDB{}
	itemDB.DB = db
	itemDB.get = mustPrepare(db, "SELECT "+itemCols+" FROM order_items WHERE id = ? LIMIT 1")
	itemDB.forOrder = mustPrepare(db, "SELECT "+itemCols+" FROM order_items WHERE order_id = ? ORDER BY id")
	itemDB.insert = mustPrepare(db, `INSERT INTO order_items
		(order_id, website, keyword, client_url, publication_id, processing_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	itemDB.statusCounts = mustPrepare(db, "SELECT processing_status, COUNT(*) FROM order_items GROUP BY processing_status")
	itemDB.submitApproval = mustPrepare(db, `UPDATE order_items
		SET processing_status = 'pending_approval', approval_requested_at = ?, updated_at = ?
		WHERE id = ? AND processing_status = ? AND content_url != ''`)
	itemDB.reviewContent = mustPrepare(db, `UPDATE order_items
		SET processing_status = ?, updated_at = ?
		WHERE id = ? AND processing_status = 'pending_approval'`)
	itemDB.submitLive = mustPrepare(db, `UPDATE order_items
		SET processing_status = 'published', live_url = ?, live_date = ?,
			live_submitted_by = ?, live_submitted_at = ?, updated_at = ?
		WHERE id = ? AND processing_status = ?`)
	itemDB.getAssignment = mustPrepare(db, "SELECT item_id, assigned_to, priority, due_date, notes, created_at, updated_at FROM order_item_assignments WHERE item_id = ? LIMIT 1")
	itemDB.setAssignment = mustPrepare(db, `INSERT INTO order_item_assignments
		(item_id, assigned_to, priority, due_date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			assigned_to = excluded.assigned_to, priority = excluded.priority,
			due_date = excluded.due_date, notes = excluded.notes, updated_at = excluded.updated_at`)
	itemDB.worklistAll = mustPrepare(db, worklistSelect+" ORDER BY i.id")
	itemDB.worklistForUser = mustPrepare(db, worklistSelect+" WHERE a.assigned_to = ? ORDER BY i.id")
	return itemDB
}

func scanItem(row interface{ Scan(...interface{}) error }) (*core.OrderItem, error) {
	var i = &core.OrderItem{}
	err := row.Scan(&i.ID, &i.OrderID, &i.Website, &i.Keyword, &i.ClientURL, &i.PublicationID,
		&i.ProcessingStatus, &i.ContentURL, &i.ContentNotes, &i.LiveURL, &i.LiveDate,
		&i.ApprovalRequestedAt, &i.LiveSubmittedBy, &i.LiveSubmittedAt, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return i, nil
}

func (db *ItemDB) GetItem(id int64) (*core.OrderItem, error) {
	return scanItem(db.get.QueryRow(id))
}

func (db *ItemDB) ItemsForOrder(orderID int64) ([]*core.OrderItem, error) {

	rows, err := db.forOrder.Query(orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.OrderItem{}
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, i)
	}
	return all, rows.Err()
}

func (db *ItemDB) InsertItem(item *core.OrderItem) (int64, error) {
	if item.ProcessingStatus == "" {
		item.ProcessingStatus = core.StatusNotStarted
	}
	ts := now()
	res, err := db.insert.Exec(item.OrderID, item.Website, item.Keyword, item.ClientURL,
		item.PublicationID, string(item.ProcessingStatus), ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (db *ItemDB) Worklist(assignedTo string) ([]*core.WorkItem, error) {

	var rows *sql.Rows
	var err error
	if assignedTo == "" {
		rows, err = db.worklistAll.Query()
	} else {
		rows, err = db.worklistForUser.Query(strings.ToLower(assignedTo))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.WorkItem{}
	for rows.Next() {
		var w = &core.WorkItem{}
		err = rows.Scan(&w.ID, &w.OrderID, &w.Website, &w.Keyword, &w.ClientURL, &w.PublicationID,
			&w.ProcessingStatus, &w.ContentURL, &w.ContentNotes, &w.LiveURL, &w.LiveDate,
			&w.ApprovalRequestedAt, &w.LiveSubmittedBy, &w.LiveSubmittedAt, &w.CreatedAt, &w.UpdatedAt,
			&w.OrderNumber, &w.ClientName,
			&w.AssignedTo, &w.Priority, &w.DueDate,
			&w.BasePrice)
		if err != nil {
			return nil, err
		}
		all = append(all, w)
	}
	return all, rows.Err()
}

func (db *ItemDB) StatusCounts() (map[core.ProcessingStatus]int, error) {

	rows, err := db.statusCounts.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts = map[core.ProcessingStatus]int{}
	for rows.Next() {
		var status core.ProcessingStatus
		var n int
		if err = rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// UpdateItem applies a partial update. The caller has already validated the
// status transition; the fields here are just written.
func (db *ItemDB) UpdateItem(id int64, upd core.ItemUpdate) error {

	var set []string
	var args []interface{}

	if upd.ProcessingStatus != nil {
		set = append(set, "processing_status = ?")
		args = append(args, string(*upd.ProcessingStatus))
	}
	if upd.ContentURL != nil {
		set = append(set, "content_url = ?")
		args = append(args, *upd.ContentURL)
	}
	if upd.ContentNotes != nil {
		set = append(set, "content_notes = ?")
		args = append(args, *upd.ContentNotes)
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at = ?")
	args = append(args, now(), id)

	res, err := db.Exec("UPDATE order_items SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// transitionErr distinguishes a missing row from a lost status guard after
// a guarded update matched nothing.
func (db *ItemDB) transitionErr(id int64) error {
	item, err := db.GetItem(id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: item is %s", core.ErrInvalidTransition, item.ProcessingStatus)
}

func (db *ItemDB) SubmitApproval(id int64, from core.ProcessingStatus) error {
	ts := now()
	res, err := db.submitApproval.Exec(ts, ts, id, string(from))
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.transitionErr(id)
	}
	return nil
}

func (db *ItemDB) ReviewContent(id int64, to core.ProcessingStatus) error {
	res, err := db.reviewContent.Exec(string(to), now(), id)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.transitionErr(id)
	}
	return nil
}

func (db *ItemDB) SubmitLive(id int64, from core.ProcessingStatus, liveURL, submittedBy string) error {
	ts := now()
	res, err := db.submitLive.Exec(liveURL, dateOf(ts), submittedBy, ts, ts, id, string(from))
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return db.transitionErr(id)
	}
	return nil
}

func (db *ItemDB) GetAssignment(itemID int64) (*core.Assignment, error) {
	var a = &core.Assignment{}
	err := db.getAssignment.QueryRow(itemID).Scan(&a.ItemID, &a.AssignedTo, &a.Priority, &a.DueDate, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (db *ItemDB) UpsertAssignment(a *core.Assignment) error {
	if a.Priority == "" {
		a.Priority = core.PriorityNormal
	}
	if !a.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", core.ErrValidation, a.Priority)
	}
	ts := now()
	_, err := db.setAssignment.Exec(a.ItemID, strings.ToLower(a.AssignedTo), string(a.Priority), a.DueDate, a.Notes, ts, ts)
	return wrapErr(err)
}
