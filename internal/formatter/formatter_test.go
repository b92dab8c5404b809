package formatter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vaultx/vaultx/internal/models"
)

func fixtures() ([]models.Account, []models.Group) {
	desc := "raid squad"
	accounts := []models.Account{
		{ID: "a1", RoleName: "admin", UserName: "u", Password: "secret", ServerID: 1, Cookies: []models.Cookie{{"name": "sid"}}},
		{ID: "a2", RoleName: "scout", UserName: "u2", Password: "secret", ServerID: 2, Ranking: 5},
	}
	groups := []models.Group{
		{ID: "g1", Name: "G", Description: &desc, AccountIDs: []string{"a1", "a2"}, Ranking: 1},
	}
	return accounts, groups
}

func TestAccountsToCSV(t *testing.T) {
	accounts, _ := fixtures()

	data, err := AccountsToCSV(accounts)
	if err != nil {
		t.Fatalf("failed to render CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 records, got %d rows", len(records))
	}
	if records[1][0] != "a1" || records[1][5] != "1" {
		t.Errorf("unexpected first record: %v", records[1])
	}
	if records[2][5] != "absent" {
		t.Errorf("account without cookies should export %q, got %q", "absent", records[2][5])
	}
	if strings.Contains(string(data), "secret") {
		t.Error("CSV export must not contain passwords")
	}
}

func TestGroupsToCSV(t *testing.T) {
	_, groups := fixtures()

	data, err := GroupsToCSV(groups)
	if err != nil {
		t.Fatalf("failed to render CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][2] != "raid squad" || records[1][3] != "2" {
		t.Errorf("unexpected group record: %v", records[1])
	}
}

func TestToJSON(t *testing.T) {
	accounts, groups := fixtures()

	data, err := ToJSON(accounts, groups)
	if err != nil {
		t.Fatalf("failed to render JSON: %v", err)
	}

	var listing Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(listing.Accounts) != 2 || len(listing.Groups) != 1 {
		t.Fatalf("unexpected listing counts: %+v", listing)
	}
	if listing.Accounts[0].Cookies == nil || *listing.Accounts[0].Cookies != 1 {
		t.Errorf("a1 should export a cookie count of 1, got %v", listing.Accounts[0].Cookies)
	}
	if listing.Accounts[1].Cookies != nil {
		t.Errorf("a2 should omit the cookie count, got %v", *listing.Accounts[1].Cookies)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("JSON export must not contain passwords")
	}
}

func TestToText(t *testing.T) {
	accounts, groups := fixtures()

	text := string(ToText(accounts, groups))
	for _, want := range []string{"Accounts (2)", "Groups (1)", "a1", "cookies=1", "members=2"} {
		if !strings.Contains(text, want) {
			t.Errorf("text listing missing %q:\n%s", want, text)
		}
	}
}
