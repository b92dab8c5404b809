// package formatter exports account and group listings to CSV, JSON, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vaultx/vaultx/internal/models"
)

// AccountsToCSV renders accounts with columns: ID, RoleName, UserName, ServerID, Ranking, Cookies.
// The cookie column holds a count, or "absent" when the field was never stored; passwords are not exported.
func AccountsToCSV(accounts []models.Account) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "RoleName", "UserName", "ServerID", "Ranking", "Cookies"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, acc := range accounts {
		cookies := "absent"
		if acc.Cookies != nil {
			cookies = strconv.Itoa(len(acc.Cookies))
		}
		record := []string{
			acc.ID,
			acc.RoleName,
			acc.UserName,
			strconv.Itoa(acc.ServerID),
			strconv.Itoa(acc.Ranking),
			cookies,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// GroupsToCSV renders groups with columns: ID, Name, Description, Members, Ranking.
func GroupsToCSV(groups []models.Group) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Description", "Members", "Ranking"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, grp := range groups {
		description := ""
		if grp.Description != nil {
			description = *grp.Description
		}
		record := []string{
			grp.ID,
			grp.Name,
			description,
			strconv.Itoa(len(grp.AccountIDs)),
			strconv.Itoa(grp.Ranking),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// Listing is the JSON export shape for one store's contents.
type Listing struct {
	Accounts []AccountSummary `json:"accounts"`
	Groups   []GroupSummary   `json:"groups"`
}

// AccountSummary is one account in a JSON listing. The cookie field
// carries a count so session state never leaks into exports.
type AccountSummary struct {
	ID       string `json:"id"`
	RoleName string `json:"role_name"`
	UserName string `json:"user_name"`
	ServerID int    `json:"server_id"`
	Ranking  int    `json:"ranking"`
	Cookies  *int   `json:"cookies,omitempty"`
}

// GroupSummary is one group in a JSON listing.
type GroupSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	AccountIDs  []string `json:"account_ids"`
	Ranking     int      `json:"ranking"`
}

// ToJSON renders both entity listings as indented JSON.
func ToJSON(accounts []models.Account, groups []models.Group) ([]byte, error) {
	listing := Listing{
		Accounts: make([]AccountSummary, 0, len(accounts)),
		Groups:   make([]GroupSummary, 0, len(groups)),
	}

	for _, acc := range accounts {
		summary := AccountSummary{
			ID:       acc.ID,
			RoleName: acc.RoleName,
			UserName: acc.UserName,
			ServerID: acc.ServerID,
			Ranking:  acc.Ranking,
		}
		if acc.Cookies != nil {
			count := len(acc.Cookies)
			summary.Cookies = &count
		}
		listing.Accounts = append(listing.Accounts, summary)
	}

	for _, grp := range groups {
		ids := grp.AccountIDs
		if ids == nil {
			ids = []string{}
		}
		listing.Groups = append(listing.Groups, GroupSummary{
			ID:          grp.ID,
			Name:        grp.Name,
			Description: grp.Description,
			AccountIDs:  ids,
			Ranking:     grp.Ranking,
		})
	}

	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing: %w", err)
	}
	return data, nil
}

// ToText renders a human-readable listing, one record per line.
func ToText(accounts []models.Account, groups []models.Group) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Accounts (%d)\n", len(accounts)))
	for _, acc := range accounts {
		if acc.Cookies != nil {
			buf.WriteString(fmt.Sprintf("  %s  role=%s server=%d ranking=%d cookies=%d\n",
				acc.ID, acc.RoleName, acc.ServerID, acc.Ranking, len(acc.Cookies)))
		} else {
			buf.WriteString(fmt.Sprintf("  %s  role=%s server=%d ranking=%d\n",
				acc.ID, acc.RoleName, acc.ServerID, acc.Ranking))
		}
	}

	buf.WriteString(fmt.Sprintf("Groups (%d)\n", len(groups)))
	for _, grp := range groups {
		buf.WriteString(fmt.Sprintf("  %s  name=%s members=%d ranking=%d\n",
			grp.ID, grp.Name, len(grp.AccountIDs), grp.Ranking))
	}

	return buf.Bytes()
}
