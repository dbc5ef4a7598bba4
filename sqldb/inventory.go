package sqldb

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aggrandize/agencydesk/core"
)

type InventoryDB struct {
	*sql.DB
	delete *sql.Stmt
	get    *sql.Stmt
	insert *sql.Stmt
	update *sql.Stmt
}

const inventoryCols = `id, website, niche, language, country, domain_rating, domain_authority,
	organic_traffic, referring_domains, spam_score, base_price, guest_post_price,
	link_insertion_price, turnaround_days, contact_email, notes,
	accepts_casino, accepts_crypto, accepts_cbd, accepts_adult, dofollow, status,
	created_at, updated_at`

func NewInventoryDB(db *sql.DB) *InventoryDB {

	db.Exec(
		`CREATE TABLE IF NOT EXISTS website_inventory (
			id INTEGER PRIMARY KEY,
			website varchar(255) NOT NULL,
			niche varchar(128) NOT NULL DEFAULT '',
			language varchar(16) NOT NULL DEFAULT '',
			country varchar(16) NOT NULL DEFAULT '',
			domain_rating int NOT NULL DEFAULT 0,
			domain_authority int NOT NULL DEFAULT 0,
			organic_traffic int NOT NULL DEFAULT 0,
			referring_domains int NOT NULL DEFAULT 0,
			spam_score int NOT NULL DEFAULT 0,
			base_price decimal(10,2) NOT NULL DEFAULT 0,
			guest_post_price decimal(10,2) NOT NULL DEFAULT 0,
			link_insertion_price decimal(10,2) NOT NULL DEFAULT 0,
			turnaround_days int NOT NULL DEFAULT 0,
			contact_email varchar(128) NOT NULL DEFAULT '',
			notes text NOT NULL DEFAULT '',
			accepts_casino int NOT NULL DEFAULT 0,
			accepts_crypto int NOT NULL DEFAULT 0,
			accepts_cbd int NOT NULL DEFAULT 0,
			accepts_adult int NOT NULL DEFAULT 0,
			dofollow int NOT NULL DEFAULT 1,
			status varchar(16) NOT NULL DEFAULT 'active'
				CHECK (status IN ('active', 'paused', 'blacklisted')),
			created_at int NOT NULL,
			updated_at int NOT NULL,
			UNIQUE(website)
		);`)

	var inventoryDB = &InventoryDB{}
	inventoryDB.DB = db
	inventoryDB.delete = mustPrepare(db, "DELETE FROM website_inventory WHERE id = ?")
	inventoryDB.get = mustPrepare(db, "SELECT "+inventoryCols+" FROM website_inventory WHERE id = ? LIMIT 1")
	inventoryDB.insert = mustPrepare(db, `INSERT INTO website_inventory
		(website, niche, language, country, domain_rating, domain_authority, organic_traffic,
		referring_domains, spam_score, base_price, guest_post_price, link_insertion_price,
		turnaround_days, contact_email, notes, accepts_casino, accepts_crypto, accepts_cbd,
		accepts_adult, dofollow, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	inventoryDB.update = mustPrepare(db, `UPDATE website_inventory SET
		website = ?, niche = ?, language = ?, country = ?, domain_rating = ?, domain_authority = ?,
		organic_traffic = ?, referring_domains = ?, spam_score = ?, base_price = ?,
		guest_post_price = ?, link_insertion_price = ?, turnaround_days = ?, contact_email = ?,
		notes = ?, accepts_casino = ?, accepts_crypto = ?, accepts_cbd = ?, accepts_adult = ?,
		dofollow = ?, status = ?, updated_at = ?
		WHERE id = ?`)
	return inventoryDB
}

func scanSite(row interface{ Scan(...interface{}) error }) (*core.InventorySite, error) {
	var s = &core.InventorySite{}
	err := row.Scan(&s.ID, &s.Website, &s.Niche, &s.Language, &s.Country, &s.DomainRating,
		&s.DomainAuthority, &s.OrganicTraffic, &s.ReferringDomains, &s.SpamScore, &s.BasePrice,
		&s.GuestPostPrice, &s.LinkInsertionPrice, &s.TurnaroundDays, &s.ContactEmail, &s.Notes,
		&s.AcceptsCasino, &s.AcceptsCrypto, &s.AcceptsCBD, &s.AcceptsAdult, &s.Dofollow, &s.Status,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}
	return s, nil
}

func (db *InventoryDB) GetSite(id int64) (*core.InventorySite, error) {
	return scanSite(db.get.QueryRow(id))
}

// sortColumns whitelists the ORDER BY targets of the list endpoint.
var sortColumns = map[string]string{
	"website":         "website",
	"domainRating":    "domain_rating",
	"domainAuthority": "domain_authority",
	"organicTraffic":  "organic_traffic",
	"spamScore":       "spam_score",
	"basePrice":       "base_price",
	"guestPostPrice":  "guest_post_price",
	"turnaroundDays":  "turnaround_days",
	"createdAt":       "created_at",
}

// filterConds translates the optional predicates into squirrel conditions.
func filterConds(f core.InventoryFilter) []sq.Sqlizer {

	var conds []sq.Sqlizer

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, sq.Or{
			sq.Like{"LOWER(website)": like},
			sq.Like{"LOWER(niche)": like},
			sq.Like{"LOWER(notes)": like},
		})
	}
	if f.Niche != "" {
		conds = append(conds, sq.Eq{"LOWER(niche)": strings.ToLower(f.Niche)})
	}
	if f.Language != "" {
		conds = append(conds, sq.Eq{"LOWER(language)": strings.ToLower(f.Language)})
	}
	if f.Country != "" {
		conds = append(conds, sq.Eq{"LOWER(country)": strings.ToLower(f.Country)})
	}
	if f.Status != "" {
		conds = append(conds, sq.Eq{"status": f.Status})
	}

	ranges := []struct {
		col      string
		min, max interface{}
	}{
		{"domain_rating", intOrNil(f.MinDomainRating), intOrNil(f.MaxDomainRating)},
		{"domain_authority", intOrNil(f.MinDomainAuthority), intOrNil(f.MaxDomainAuthority)},
		{"organic_traffic", intOrNil(f.MinOrganicTraffic), intOrNil(f.MaxOrganicTraffic)},
		{"referring_domains", intOrNil(f.MinReferringDomains), intOrNil(f.MaxReferringDomains)},
		{"spam_score", intOrNil(f.MinSpamScore), intOrNil(f.MaxSpamScore)},
		{"base_price", floatOrNil(f.MinBasePrice), floatOrNil(f.MaxBasePrice)},
		{"guest_post_price", floatOrNil(f.MinGuestPostPrice), floatOrNil(f.MaxGuestPostPrice)},
		{"link_insertion_price", floatOrNil(f.MinLinkInsertion), floatOrNil(f.MaxLinkInsertion)},
		{"turnaround_days", nil, intOrNil(f.MaxTurnaroundDays)},
	}
	for _, r := range ranges {
		if r.min != nil {
			conds = append(conds, sq.GtOrEq{r.col: r.min})
		}
		if r.max != nil {
			conds = append(conds, sq.LtOrEq{r.col: r.max})
		}
	}

	flags := []struct {
		col string
		val *bool
	}{
		{"accepts_casino", f.AcceptsCasino},
		{"accepts_crypto", f.AcceptsCrypto},
		{"accepts_cbd", f.AcceptsCBD},
		{"accepts_adult", f.AcceptsAdult},
		{"dofollow", f.Dofollow},
	}
	for _, fl := range flags {
		if fl.val != nil {
			conds = append(conds, sq.Eq{fl.col: *fl.val})
		}
	}

	return conds
}

func intOrNil(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatOrNil(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func (db *InventoryDB) ListSites(f core.InventoryFilter) ([]*core.InventorySite, int, error) {

	conds := filterConds(f)

	countQuery := sq.Select("COUNT(*)").From("website_inventory")
	listQuery := sq.Select(inventoryCols).From("website_inventory")
	for _, c := range conds {
		countQuery = countQuery.Where(c)
		listQuery = listQuery.Where(c)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := db.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "website"
	if col, ok := sortColumns[f.SortBy]; ok {
		orderBy = col
	} else if f.SortBy != "" {
		return nil, 0, fmt.Errorf("%w: unknown sort column %q", core.ErrValidation, f.SortBy)
	}
	if f.SortDesc {
		orderBy += " DESC"
	}
	listQuery = listQuery.OrderBy(orderBy)

	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	listQuery = listQuery.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(listSQL, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var all = []*core.InventorySite{}
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, s)
	}
	return all, total, rows.Err()
}

func (db *InventoryDB) InsertSite(s *core.InventorySite) (int64, error) {
	if s.Status == "" {
		s.Status = "active"
	}
	ts := now()
	res, err := db.insert.Exec(normalizeWebsite(s.Website), s.Niche, s.Language, s.Country,
		s.DomainRating, s.DomainAuthority, s.OrganicTraffic, s.ReferringDomains, s.SpamScore,
		s.BasePrice, s.GuestPostPrice, s.LinkInsertionPrice, s.TurnaroundDays, s.ContactEmail,
		s.Notes, s.AcceptsCasino, s.AcceptsCrypto, s.AcceptsCBD, s.AcceptsAdult, s.Dofollow,
		s.Status, ts, ts)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.LastInsertId()
}

func (db *InventoryDB) UpdateSite(s *core.InventorySite) error {
	res, err := db.update.Exec(normalizeWebsite(s.Website), s.Niche, s.Language, s.Country,
		s.DomainRating, s.DomainAuthority, s.OrganicTraffic, s.ReferringDomains, s.SpamScore,
		s.BasePrice, s.GuestPostPrice, s.LinkInsertionPrice, s.TurnaroundDays, s.ContactEmail,
		s.Notes, s.AcceptsCasino, s.AcceptsCrypto, s.AcceptsCBD, s.AcceptsAdult, s.Dofollow,
		s.Status, now(), s.ID)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (db *InventoryDB) DeleteSite(id int64) error {
	res, err := db.delete.Exec(id)
	if err != nil {
		return wrapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// normalizeWebsite strips the protocol, a www prefix and trailing slashes,
// matching how catalog imports clean domains.
func normalizeWebsite(website string) string {
	website = strings.TrimSpace(strings.ToLower(website))
	website = strings.TrimPrefix(website, "https://")
	website = strings.TrimPrefix(website, "http://")
	website = strings.TrimPrefix(website, "www.")
	return strings.TrimRight(website, "/")
}
