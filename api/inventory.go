package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

func intParam(q url.Values, name string) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", core.ErrValidation, name)
	}
	return &v, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", core.ErrValidation, name)
	}
	return &v, nil
}

func boolParam(q url.Values, name string) (*bool, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", core.ErrValidation, name)
	}
	return &v, nil
}

// parseInventoryFilter maps the optional query parameters onto the filter.
// The export endpoint replays the same logic.
func parseInventoryFilter(req *http.Request) (core.InventoryFilter, error) {

	q := req.URL.Query()

	var f = core.InventoryFilter{
		Search:   q.Get("search"),
		Niche:    q.Get("niche"),
		Language: q.Get("language"),
		Country:  q.Get("country"),
		Status:   q.Get("status"),
		SortBy:   q.Get("sortBy"),
		SortDesc: q.Get("sortDesc") == "true",
	}
	f.Limit, f.Offset = pagination(req)

	var err error
	ints := []struct {
		name string
		dst  **int
	}{
		{"minDomainRating", &f.MinDomainRating},
		{"maxDomainRating", &f.MaxDomainRating},
		{"minDomainAuthority", &f.MinDomainAuthority},
		{"maxDomainAuthority", &f.MaxDomainAuthority},
		{"minTraffic", &f.MinOrganicTraffic},
		{"maxTraffic", &f.MaxOrganicTraffic},
		{"minReferringDomains", &f.MinReferringDomains},
		{"maxReferringDomains", &f.MaxReferringDomains},
		{"minSpamScore", &f.MinSpamScore},
		{"maxSpamScore", &f.MaxSpamScore},
		{"maxTurnaroundDays", &f.MaxTurnaroundDays},
	}
	for _, p := range ints {
		if *p.dst, err = intParam(q, p.name); err != nil {
			return f, err
		}
	}

	floats := []struct {
		name string
		dst  **float64
	}{
		{"minBasePrice", &f.MinBasePrice},
		{"maxBasePrice", &f.MaxBasePrice},
		{"minGuestPostPrice", &f.MinGuestPostPrice},
		{"maxGuestPostPrice", &f.MaxGuestPostPrice},
		{"minLinkInsertionPrice", &f.MinLinkInsertion},
		{"maxLinkInsertionPrice", &f.MaxLinkInsertion},
	}
	for _, p := range floats {
		if *p.dst, err = floatParam(q, p.name); err != nil {
			return f, err
		}
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"acceptsCasino", &f.AcceptsCasino},
		{"acceptsCrypto", &f.AcceptsCrypto},
		{"acceptsCbd", &f.AcceptsCBD},
		{"acceptsAdult", &f.AcceptsAdult},
		{"dofollow", &f.Dofollow},
	}
	for _, p := range bools {
		if *p.dst, err = boolParam(q, p.name); err != nil {
			return f, err
		}
	}

	return f, nil
}

func listInventory(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	filter, err := parseInventoryFilter(req)
	if err != nil {
		return err
	}

	sites, total, err := ctx.db.ListSites(filter)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{
		"sites":  sites,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
	return nil
}

func getSite(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	site, err := ctx.db.GetSite(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"site": site})
	return nil
}

func createSite(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	var site core.InventorySite
	if err := decodeBody(req, &site); err != nil {
		return err
	}
	if site.Website == "" {
		return fmt.Errorf("%w: website is required", core.ErrValidation)
	}

	id, err := ctx.db.InsertSite(&site)
	if err != nil {
		return err
	}
	created, err := ctx.db.GetSite(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusCreated, envelope{"site": created})
	return nil
}

func updateSite(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	site, err := ctx.db.GetSite(id)
	if err != nil {
		return err
	}

	// decode over the stored record, absent fields keep their value
	if err := decodeBody(req, site); err != nil {
		return err
	}
	site.ID = id

	if err := ctx.db.UpdateSite(site); err != nil {
		return err
	}
	updated, err := ctx.db.GetSite(id)
	if err != nil {
		return err
	}

	respond(w, http.StatusOK, envelope{"site": updated})
	return nil
}

func deleteSite(w http.ResponseWriter, _ *http.Request, ctx *context, params httprouter.Params) error {

	id, err := pathID(params, "id")
	if err != nil {
		return err
	}
	if err := ctx.db.DeleteSite(id); err != nil {
		return err
	}

	respond(w, http.StatusOK, nil)
	return nil
}

var exportHeader = []string{
	"website", "niche", "language", "country", "domain_rating", "domain_authority",
	"organic_traffic", "referring_domains", "spam_score", "base_price",
	"guest_post_price", "link_insertion_price", "turnaround_days", "contact_email",
	"accepts_casino", "accepts_crypto", "accepts_cbd", "accepts_adult", "dofollow", "status",
}

// exportInventory replays the list filter without pagination and streams
// the matches as CSV or JSON.
func exportInventory(w http.ResponseWriter, req *http.Request, ctx *context, _ httprouter.Params) error {

	filter, err := parseInventoryFilter(req)
	if err != nil {
		return err
	}
	filter.Limit = 500
	filter.Offset = 0

	format := req.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var all []*core.InventorySite
	for {
		page, _, err := ctx.db.ListSites(filter)
		if err != nil {
			return err
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}

	switch format {
	case "json":
		respond(w, http.StatusOK, envelope{"sites": all})
		return nil
	case "csv", "xlsx": // xlsx callers get CSV, which spreadsheets open fine
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
		cw := csv.NewWriter(w)
		if err := cw.Write(exportHeader); err != nil {
			return err
		}
		for _, s := range all {
			record := []string{
				s.Website, s.Niche, s.Language, s.Country,
				strconv.Itoa(s.DomainRating), strconv.Itoa(s.DomainAuthority),
				strconv.Itoa(s.OrganicTraffic), strconv.Itoa(s.ReferringDomains),
				strconv.Itoa(s.SpamScore),
				strconv.FormatFloat(s.BasePrice, 'f', 2, 64),
				strconv.FormatFloat(s.GuestPostPrice, 'f', 2, 64),
				strconv.FormatFloat(s.LinkInsertionPrice, 'f', 2, 64),
				strconv.Itoa(s.TurnaroundDays), s.ContactEmail,
				strconv.FormatBool(s.AcceptsCasino), strconv.FormatBool(s.AcceptsCrypto),
				strconv.FormatBool(s.AcceptsCBD), strconv.FormatBool(s.AcceptsAdult),
				strconv.FormatBool(s.Dofollow), s.Status,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: format must be csv or json", core.ErrValidation)
	}
}
