package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aggrandize/agencydesk/core"
	"golang.org/x/crypto/bcrypt"
)

type UserDB struct {
	*sql.DB
	get         *sql.Stmt
	getByEmail  *sql.Stmt
	getAll      *sql.Stmt
	insert      *sql.Stmt
	login       *sql.Stmt
	refresh     *sql.Stmt
	setPassword *sql.Stmt
	setPerms    *sql.Stmt
}

func NewUserDB(db *sql.DB) *UserDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS user_profiles (
			id INTEGER PRIMARY KEY,
			email varchar(128) NOT NULL,
			name varchar(128) NOT NULL DEFAULT '',
			password varchar(128) NOT NULL DEFAULT '',
			role varchar(16) NOT NULL DEFAULT 'member',
			individual_permissions text NOT NULL DEFAULT '',
			created_at int NOT NULL,
			updated_at int NOT NULL,
			UNIQUE(email)
		);`)

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.get = mustPrepare(db, "SELECT id, email, name, role, individual_permissions, created_at, updated_at FROM user_profiles WHERE id = ? LIMIT 1")
	userDB.getByEmail = mustPrepare(db, "SELECT id, email, name, role, individual_permissions, created_at, updated_at FROM user_profiles WHERE email = ? LIMIT 1")
	userDB.getAll = mustPrepare(db, "SELECT id, email, name, role, individual_permissions, created_at, updated_at FROM user_profiles ORDER BY email LIMIT ? OFFSET ?")
	userDB.insert = mustPrepare(db, "INSERT INTO user_profiles (email, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)")
	userDB.login = mustPrepare(db, "SELECT password FROM user_profiles WHERE email = ? LIMIT 1")
	userDB.refresh = mustPrepare(db, "UPDATE user_profiles SET name = ?, role = ?, updated_at = ? WHERE email = ?")
	userDB.setPassword = mustPrepare(db, "UPDATE user_profiles SET password = ?, updated_at = ? WHERE id = ?")
	userDB.setPerms = mustPrepare(db, "UPDATE user_profiles SET role = ?, individual_permissions = ?, updated_at = ? WHERE id = ?")
	return userDB
}

func scanProfile(row interface{ Scan(...interface{}) error }) (*core.UserProfile, error) {
	var p = &core.UserProfile{}
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Role, &p.IndividualPermissions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (db *UserDB) GetProfile(id int64) (*core.UserProfile, error) {
	return scanProfile(db.get.QueryRow(id))
}

func (db *UserDB) GetProfileByEmail(email string) (*core.UserProfile, error) {
	return scanProfile(db.getByEmail.QueryRow(strings.ToLower(strings.TrimSpace(email))))
}

func (db *UserDB) GetAllProfiles(limit, offset int) ([]*core.UserProfile, error) {

	rows, err := db.getAll.Query(limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []*core.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, p)
	}
	return all, rows.Err()
}

// UpsertProfile creates the row on first login and refreshes name and role
// on subsequent ones.
func (db *UserDB) UpsertProfile(email, name string, role core.Role) (*core.UserProfile, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	_, err := db.GetProfileByEmail(email)
	if err == nil {
		if _, err := db.refresh.Exec(name, string(role), now(), email); err != nil {
			return nil, wrapErr(err)
		}
		return db.GetProfileByEmail(email)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	ts := now()
	if _, err := db.insert.Exec(email, name, string(role), ts, ts); err != nil {
		return nil, wrapErr(err)
	}
	return db.GetProfileByEmail(email)
}

func (db *UserDB) Login(email, password string) (*core.UserProfile, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	var hash string
	if err := db.login.QueryRow(email).Scan(&hash); err != nil {
		if errors.Is(wrapErr(err), core.ErrNotFound) {
			return nil, core.ErrUnauthorized // unknown email
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, core.ErrUnauthorized // wrong password
	}

	return db.GetProfileByEmail(email)
}

func (db *UserDB) SetPassword(id int64, password string) error {
	if password == "" {
		return core.ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.setPassword.Exec(string(hash), now(), id)
	return wrapErr(err)
}

func (db *UserDB) UpdatePermissions(id int64, role core.Role, overrideJSON string) error {
	if !role.Valid() {
		return core.ErrValidation
	}
	res, err := db.setPerms.Exec(string(role), overrideJSON, now(), id)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
