package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump flattens an error chain into log fields. Store fields are filled
// from the first postgres or sqlite error found in the chain.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`

	Chain []string `json:"chain,omitempty"`

	StoreCode       string `json:"store_code,omitempty"`
	StoreConstraint string `json:"store_constraint,omitempty"`
	StoreTable      string `json:"store_table,omitempty"`
	StoreDetail     string `json:"store_detail,omitempty"`
	StoreMessage    string `json:"store_message,omitempty"`
}

// Fields returns the dump as logger fields, skipping empty store values.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	for key, value := range map[string]string{
		"store_code":       d.StoreCode,
		"store_constraint": d.StoreConstraint,
		"store_table":      d.StoreTable,
		"store_detail":     d.StoreDetail,
		"store_message":    d.StoreMessage,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	_ = d.fromPgx(err) || d.fromPQ(err) || d.fromSQLite(err)
	return d
}

func (d *ErrorDump) fromPgx(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	d.StoreCode = pgErr.Code
	d.StoreConstraint = pgErr.ConstraintName
	d.StoreTable = pgErr.TableName
	d.StoreDetail = pgErr.Detail
	d.StoreMessage = pgErr.Message
	return true
}

func (d *ErrorDump) fromPQ(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	d.StoreCode = string(pqErr.Code)
	d.StoreConstraint = pqErr.Constraint
	d.StoreTable = pqErr.Table
	d.StoreDetail = pqErr.Detail
	d.StoreMessage = pqErr.Message
	return true
}

func (d *ErrorDump) fromSQLite(err error) bool {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	d.StoreCode = fmt.Sprintf("sqlite:%d", int(liteErr.ExtendedCode))
	d.StoreMessage = liteErr.Error()
	return true
}
