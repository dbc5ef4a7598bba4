package sqldb

import (
	"database/sql"

	"github.com/aggrandize/agencydesk/core"
)

type OrderDB struct {
	*sql.DB
	delete       *sql.Stmt
	get          *sql.Stmt
	getAll       *sql.Stmt
	getAllStatus *sql.Stmt
	insert       *sql.Stmt
	update       *sql.Stmt
}

func NewOrderDB(db *sql.DB) *OrderDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY,
			order_number varchar(64) NOT NULL,
			client_name varchar(128) NOT NULL,
			assigned_to varchar(128) NOT NULL DEFAULT '',
			due_date varchar(10) NOT NULL DEFAULT '',
			status varchar(16) NOT NULL DEFAULT 'active'
				CHECK (status IN ('active', 'on_hold', 'completed', 'cancelled')),
			created_at int NOT NULL,
			updated_at int NOT NULL,
			UNIQUE(order_number)
		);`)

	const cols = "id, order_number, client_name, assigned_to, due_date, status, created_at, updated_at"

	var orderDB = &OrderDB{}
	orderDB.DB = db
	orderDB.delete = mustPrepare(db, "DELETE FROM orders WHERE id = ?")
	orderDB.get = mustPrepare(db, "SELECT "+cols+" FROM orders WHERE id = ? LIMIT 1")
	orderDB.getAll = mustPrepare(db, "SELECT "+cols+" FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?")
	orderDB.getAllStatus = mustPrepare(db, "SELECT "+cols+" FROM orders WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?")
	orderDB.insert = mustPrepare(db, "INSERT INTO orders (order_number, client_name, assigned_to, due_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	orderDB.update = mustPrepare(db, "UPDATE orders SET client_name = ?, assigned_to = ?, due_date = ?, status = ?, updated_at = ? WHERE id = ?")
	return orderDB
}

func scanOrder(row interface{ Scan(...interface{}) error }) (*core.Order, error) {
	var o = &core.Order{}
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ClientName, &o.AssignedTo, &o.DueDate, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return o, nil
}

func (db *OrderDB) GetOrder(id int64) (*core.Order, error) {
	return scanOrder(db.get.QueryRow(id))
}

func (db *OrderDB) GetAllOrders(status core.OrderStatus, limit, offset int) ([]*core.Order, error) {

	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = db.getAll.Query(limit, offset)
	} else {
		rows, err = db.getAllStatus.Query(string(status), limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, o)
	}
	return all, rows.Err()
}

func (db *OrderDB) InsertOrder(o *core.Order) (int64, error) {
	ts := now()
	res, err := db.insert.Exec(o.OrderNumber, o.ClientName, o.AssignedTo, o.DueDate, string(o.Status), ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (db *OrderDB) UpdateOrder(o *core.Order) error {
	res, err := db.update.Exec(o.ClientName, o.AssignedTo, o.DueDate, string(o.Status), now(), o.ID)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (db *OrderDB) DeleteOrder(id int64) error {
	res, err := db.delete.Exec(id)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
