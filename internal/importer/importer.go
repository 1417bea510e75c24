package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mycarts/internal/domain"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
)

const cartColumnPrefix = "cart."

type UserWriter interface {
	Create(ctx context.Context, in userrepo.CreateUserInput) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type CartWriter interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
}

// Result counts what a run created.
type Result struct {
	Users int
	Carts int
}

// CSVImporter reads rows of `username,guest,cart.<attr>...` and creates users and their carts.
// Rows with an empty username add another cart to the previous user; rows without any cart
// column value create only the user.
type CSVImporter struct {
	reader *csv.Reader
	users  UserWriter
	carts  CartWriter
}

func NewCSVImporter(r io.Reader, users UserWriter, carts CartWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, users: users, carts: carts}
}

type csvRow struct {
	Username string
	Guest    bool
	Attrs    map[string]interface{}
}

// Run parses CSV rows and creates users and carts. Existing users are reused.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["username"]; !ok {
		return res, errors.New("missing username column")
	}

	var current *domain.User
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}
		if row == nil {
			continue
		}

		if row.Username != "" {
			u, created, err := i.ensureUser(ctx, row)
			if err != nil {
				return res, fmt.Errorf("row %d: %w", line, err)
			}
			if created {
				res.Users++
			}
			current = u
		} else if current == nil {
			return res, fmt.Errorf("row %d: cart row before any user", line)
		}

		if len(row.Attrs) == 0 {
			continue
		}
		owner := current.ID
		if _, err := i.carts.Create(ctx, cartrepo.CreateCartInput{
			OwnerID:    &owner,
			Attributes: domain.SanitizeAttributes(row.Attrs),
		}); err != nil {
			return res, fmt.Errorf("row %d: create cart for %s: %w", line, current.Username, err)
		}
		res.Carts++
	}
	return res, nil
}

func (i *CSVImporter) ensureUser(ctx context.Context, row *csvRow) (*domain.User, bool, error) {
	if err := domain.ValidateUsername(row.Username); err != nil {
		return nil, false, fmt.Errorf("user %q: %w", row.Username, err)
	}
	u, err := i.users.GetByUsername(ctx, row.Username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup user %s: %w", row.Username, err)
	}
	u, err = i.users.Create(ctx, userrepo.CreateUserInput{Username: row.Username, Guest: row.Guest})
	if err != nil {
		return nil, false, fmt.Errorf("create user %s: %w", row.Username, err)
	}
	return u, true, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	row := &csvRow{
		Username: pick(record, index, "username"),
		Attrs:    map[string]interface{}{},
	}
	if raw := pick(record, index, "guest"); raw != "" {
		guest, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid guest value %q", raw)
		}
		row.Guest = guest
	}
	for col, pos := range index {
		if !strings.HasPrefix(col, cartColumnPrefix) || pos >= len(record) {
			continue
		}
		v := strings.TrimSpace(record[pos])
		if v == "" {
			continue
		}
		row.Attrs[strings.TrimPrefix(col, cartColumnPrefix)] = v
	}
	if row.Username == "" && len(row.Attrs) == 0 {
		return nil, nil
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
