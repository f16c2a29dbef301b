package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

type ParseHandlerTestSuite struct {
	HandlerTestSuite
}

func TestParseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ParseHandlerTestSuite))
}

func (suite *ParseHandlerTestSuite) TestParse_Success() {
	parsed := &domain.ParsedInvoice{ClientName: "Acme", Amount: decimal.NewFromInt(500), Description: "Logo Design", Confidence: 0.9}
	suite.parser.On("ParseInvoiceText", mock.Anything, "bill acme $500 for logo design").Return(parsed, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/parse", `{"input":"bill acme $500 for logo design"}`, "")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ParseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.ParsedData)
	suite.Equal("Acme", resp.ParsedData.ClientName)
}

func (suite *ParseHandlerTestSuite) TestParse_NothingExtracted() {
	suite.parser.On("ParseInvoiceText", mock.Anything, "hello there friend").Return(nil, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/parse", `{"input":"hello there friend"}`, "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"parsedData":null}`, w.Body.String())
}

func (suite *ParseHandlerTestSuite) TestParse_MissingInput() {
	w := suite.do(http.MethodPost, "/api/v1/parse", `{}`, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.JSONEq(`{"error":"Input text is required"}`, w.Body.String())
}

func (suite *ParseHandlerTestSuite) TestParse_Errors() {
	suite.parser.On("ParseInvoiceText", mock.Anything, "abc").
		Return(nil, fmt.Errorf("input too short: %w", apperrors.ErrValidation)).Once()
	suite.parser.On("ParseInvoiceText", mock.Anything, "bill bob 20").
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "invoice text extraction is not configured", nil)).Once()

	w := suite.do(http.MethodPost, "/api/v1/parse", `{"input":"abc"}`, "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/parse", `{"input":"bill bob 20"}`, "")
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"AI parsing failed"}`, w.Body.String())
}
