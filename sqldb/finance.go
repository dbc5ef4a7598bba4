package sqldb

import (
	"database/sql"

	"github.com/aggrandize/agencydesk/core"
)

// FinanceDB covers the four independent finance tables. No workflow logic
// lives here, it is plain create/read/update/delete.
type FinanceDB struct {
	*sql.DB

	expenseDelete *sql.Stmt
	expenseGet    *sql.Stmt
	expenseGetAll *sql.Stmt
	expenseInsert *sql.Stmt
	expenseUpdate *sql.Stmt

	billDelete *sql.Stmt
	billGet    *sql.Stmt
	billGetAll *sql.Stmt
	billInsert *sql.Stmt
	billUpdate *sql.Stmt

	subDelete *sql.Stmt
	subGet    *sql.Stmt
	subGetAll *sql.Stmt
	subInsert *sql.Stmt
	subUpdate *sql.Stmt

	salaryDelete *sql.Stmt
	salaryGet    *sql.Stmt
	salaryGetAll *sql.Stmt
	salaryInsert *sql.Stmt
	salaryUpdate *sql.Stmt
}

func NewFinanceDB(db *sql.DB) *FinanceDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY,
			date varchar(10) NOT NULL,
			category varchar(64) NOT NULL,
			description text NOT NULL DEFAULT '',
			amount decimal(10,2) NOT NULL,
			paid_by varchar(128) NOT NULL DEFAULT '',
			settled int NOT NULL DEFAULT 0,
			created_at int NOT NULL,
			updated_at int NOT NULL
		);`)
	db.Exec(
		`CREATE TABLE IF NOT EXISTS utility_bills (
			id INTEGER PRIMARY KEY,
			provider varchar(128) NOT NULL,
			bill_month varchar(7) NOT NULL,
			amount decimal(10,2) NOT NULL,
			due_date varchar(10) NOT NULL DEFAULT '',
			paid int NOT NULL DEFAULT 0,
			paid_on varchar(10) NOT NULL DEFAULT '',
			created_at int NOT NULL,
			updated_at int NOT NULL
		);`)
	db.Exec(
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id INTEGER PRIMARY KEY,
			service varchar(128) NOT NULL,
			plan varchar(128) NOT NULL DEFAULT '',
			monthly_cost decimal(10,2) NOT NULL,
			renewal_day int NOT NULL DEFAULT 1,
			active int NOT NULL DEFAULT 1,
			created_at int NOT NULL,
			updated_at int NOT NULL
		);`)
	db.Exec(
		`CREATE TABLE IF NOT EXISTS monthly_salary_payments (
			id INTEGER PRIMARY KEY,
			employee varchar(128) NOT NULL,
			month varchar(7) NOT NULL,
			amount decimal(10,2) NOT NULL,
			paid_on varchar(10) NOT NULL DEFAULT '',
			notes text NOT NULL DEFAULT '',
			created_at int NOT NULL,
			updated_at int NOT NULL,
			UNIQUE(employee, month)
		);`)

	var f = &FinanceDB{}
	f.DB = db

	f.expenseDelete = mustPrepare(db, "DELETE FROM expenses WHERE id = ?")
	f.expenseGet = mustPrepare(db, "SELECT id, date, category, description, amount, paid_by, settled, created_at, updated_at FROM expenses WHERE id = ? LIMIT 1")
	f.expenseGetAll = mustPrepare(db, "SELECT id, date, category, description, amount, paid_by, settled, created_at, updated_at FROM expenses ORDER BY date DESC LIMIT ? OFFSET ?")
	f.expenseInsert = mustPrepare(db, "INSERT INTO expenses (date, category, description, amount, paid_by, settled, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	f.expenseUpdate = mustPrepare(db, "UPDATE expenses SET date = ?, category = ?, description = ?, amount = ?, paid_by = ?, settled = ?, updated_at = ? WHERE id = ?")

	f.billDelete = mustPrepare(db, "DELETE FROM utility_bills WHERE id = ?")
	f.billGet = mustPrepare(db, "SELECT id, provider, bill_month, amount, due_date, paid, paid_on, created_at, updated_at FROM utility_bills WHERE id = ? LIMIT 1")
	f.billGetAll = mustPrepare(db, "SELECT id, provider, bill_month, amount, due_date, paid, paid_on, created_at, updated_at FROM utility_bills ORDER BY bill_month DESC LIMIT ? OFFSET ?")
	f.billInsert = mustPrepare(db, "INSERT INTO utility_bills (provider, bill_month, amount, due_date, paid, paid_on, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	f.billUpdate = mustPrepare(db, "UPDATE utility_bills SET provider = ?, bill_month = ?, amount = ?, due_date = ?, paid = ?, paid_on = ?, updated_at = ? WHERE id = ?")

	f.subDelete = mustPrepare(db, "DELETE FROM subscriptions WHERE id = ?")
	f.subGet = mustPrepare(db, "SELECT id, service, plan, monthly_cost, renewal_day, active, created_at, updated_at FROM subscriptions WHERE id = ? LIMIT 1")
	f.subGetAll = mustPrepare(db, "SELECT id, service, plan, monthly_cost, renewal_day, active, created_at, updated_at FROM subscriptions ORDER BY service LIMIT ? OFFSET ?")
	f.subInsert = mustPrepare(db, "INSERT INTO subscriptions (service, plan, monthly_cost, renewal_day, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	f.subUpdate = mustPrepare(db, "UPDATE subscriptions SET service = ?, plan = ?, monthly_cost = ?, renewal_day = ?, active = ?, updated_at = ? WHERE id = ?")

	f.salaryDelete = mustPrepare(db, "DELETE FROM monthly_salary_payments WHERE id = ?")
	f.salaryGet = mustPrepare(db, "SELECT id, employee, month, amount, paid_on, notes, created_at, updated_at FROM monthly_salary_payments WHERE id = ? LIMIT 1")
	f.salaryGetAll = mustPrepare(db, "SELECT id, employee, month, amount, paid_on, notes, created_at, updated_at FROM monthly_salary_payments ORDER BY month DESC, employee LIMIT ? OFFSET ?")
	f.salaryInsert = mustPrepare(db, "INSERT INTO monthly_salary_payments (employee, month, amount, paid_on, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)")
	f.salaryUpdate = mustPrepare(db, "UPDATE monthly_salary_payments SET employee = ?, month = ?, amount = ?, paid_on = ?, notes = ?, updated_at = ? WHERE id = ?")

	return f
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// expenses

func (f *FinanceDB) GetExpense(id int64) (*core.Expense, error) {
	var e = &core.Expense{}
	err := f.expenseGet.QueryRow(id).Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.Amount, &e.PaidBy, &e.Settled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return e, nil
}

func (f *FinanceDB) GetAllExpenses(limit, offset int) ([]*core.Expense, error) {
	rows, err := f.expenseGetAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var all = []*core.Expense{}
	for rows.Next() {
		var e = &core.Expense{}
		if err = rows.Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.Amount, &e.PaidBy, &e.Settled, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, e)
	}
	return all, rows.Err()
}

func (f *FinanceDB) InsertExpense(e *core.Expense) (int64, error) {
	ts := now()
	res, err := f.expenseInsert.Exec(e.Date, e.Category, e.Description, e.Amount, e.PaidBy, e.Settled, ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (f *FinanceDB) UpdateExpense(e *core.Expense) error {
	return affected(f.expenseUpdate.Exec(e.Date, e.Category, e.Description, e.Amount, e.PaidBy, e.Settled, now(), e.ID))
}

func (f *FinanceDB) DeleteExpense(id int64) error {
	return affected(f.expenseDelete.Exec(id))
}

// utility bills

func (f *FinanceDB) GetUtilityBill(id int64) (*core.UtilityBill, error) {
	var b = &core.UtilityBill{}
	err := f.billGet.QueryRow(id).Scan(&b.ID, &b.Provider, &b.BillMonth, &b.Amount, &b.DueDate, &b.Paid, &b.PaidOn, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return b, nil
}

func (f *FinanceDB) GetAllUtilityBills(limit, offset int) ([]*core.UtilityBill, error) {
	rows, err := f.billGetAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var all = []*core.UtilityBill{}
	for rows.Next() {
		var b = &core.UtilityBill{}
		if err = rows.Scan(&b.ID, &b.Provider, &b.BillMonth, &b.Amount, &b.DueDate, &b.Paid, &b.PaidOn, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, b)
	}
	return all, rows.Err()
}

func (f *FinanceDB) InsertUtilityBill(b *core.UtilityBill) (int64, error) {
	ts := now()
	res, err := f.billInsert.Exec(b.Provider, b.BillMonth, b.Amount, b.DueDate, b.Paid, b.PaidOn, ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (f *FinanceDB) UpdateUtilityBill(b *core.UtilityBill) error {
	return affected(f.billUpdate.Exec(b.Provider, b.BillMonth, b.Amount, b.DueDate, b.Paid, b.PaidOn, now(), b.ID))
}

func (f *FinanceDB) DeleteUtilityBill(id int64) error {
	return affected(f.billDelete.Exec(id))
}

// subscriptions

func (f *FinanceDB) GetSubscription(id int64) (*core.Subscription, error) {
	var s = &core.Subscription{}
	err := f.subGet.QueryRow(id).Scan(&s.ID, &s.Service, &s.Plan, &s.MonthlyCost, &s.RenewalDay, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return s, nil
}

func (f *FinanceDB) GetAllSubscriptions(limit, offset int) ([]*core.Subscription, error) {
	rows, err := f.subGetAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var all = []*core.Subscription{}
	for rows.Next() {
		var s = &core.Subscription{}
		if err = rows.Scan(&s.ID, &s.Service, &s.Plan, &s.MonthlyCost, &s.RenewalDay, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, s)
	}
	return all, rows.Err()
}

func (f *FinanceDB) InsertSubscription(s *core.Subscription) (int64, error) {
	ts := now()
	res, err := f.subInsert.Exec(s.Service, s.Plan, s.MonthlyCost, s.RenewalDay, s.Active, ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (f *FinanceDB) UpdateSubscription(s *core.Subscription) error {
	return affected(f.subUpdate.Exec(s.Service, s.Plan, s.MonthlyCost, s.RenewalDay, s.Active, now(), s.ID))
}

func (f *FinanceDB) DeleteSubscription(id int64) error {
	return affected(f.subDelete.Exec(id))
}

// salary payments

func (f *FinanceDB) GetSalaryPayment(id int64) (*core.SalaryPayment, error) {
	var p = &core.SalaryPayment{}
	err := f.salaryGet.QueryRow(id).Scan(&p.ID, &p.Employee, &p.Month, &p.Amount, &p.PaidOn, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (f *FinanceDB) GetAllSalaryPayments(limit, offset int) ([]*core.SalaryPayment, error) {
	rows, err := f.salaryGetAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var all = []*core.SalaryPayment{}
	for rows.Next() {
		var p = &core.SalaryPayment{}
		if err = rows.Scan(&p.ID, &p.Employee, &p.Month, &p.Amount, &p.PaidOn, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

func (f *FinanceDB) InsertSalaryPayment(p *core.SalaryPayment) (int64, error) {
	ts := now()
	res, err := f.salaryInsert.Exec(p.Employee, p.Month, p.Amount, p.PaidOn, p.Notes, ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (f *FinanceDB) UpdateSalaryPayment(p *core.SalaryPayment) error {
	return affected(f.salaryUpdate.Exec(p.Employee, p.Month, p.Amount, p.PaidOn, p.Notes, now(), p.ID))
}

func (f *FinanceDB) DeleteSalaryPayment(id int64) error {
	return affected(f.salaryDelete.Exec(id))
}
