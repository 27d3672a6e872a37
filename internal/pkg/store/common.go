package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/xformreports/internal/pkg/constants"
)

const (
	tableLocations         = "locations_location"
	tableSubmissions       = "rapidsms_xforms_xformsubmission"
	tableXForms            = "rapidsms_xforms_xform"
	tableSubmissionValues  = "rapidsms_xforms_xformsubmissionvalue"
	tableValues            = "eav_value"
	tableAttributes        = "eav_attribute"
	tableConnections       = "rapidsms_connection"
	tableContacts          = "rapidsms_contact"
	tableMessages          = "rapidsms_httprouter_message"
	tablePollResponses     = "poll_response"
	tableBackends          = "rapidsms_backend"
	columnSubmissionCreate = "s.created"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel builder using Postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
