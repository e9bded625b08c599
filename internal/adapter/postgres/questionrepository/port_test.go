package questionrepository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codejudge/internal/static/errs"
)

var loadQuery = regexp.QuoteMeta(`SELECT testcases FROM public.questions WHERE quesid = $1`)

func newRepo(t *testing.T) (*QuestionRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewQuestionRepository(sqlx.NewDb(db, "postgres"), logging.NewNopLogger(), "public"), mock
}

func TestLoadCaseSet_FlatPayload(t *testing.T) {
	repo, mock := newRepo(t)
	payload := `[{"input":"1","expected_output":"1"},{"input":"2","expected_output":"2"},{"input":"3","expected_output":"3"},{"input":"4","expected_output":"4"}]`
	mock.ExpectQuery(loadQuery).WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"testcases"}).AddRow(payload))

	set, err := repo.LoadCaseSet(context.Background(), 11)
	require.NoError(t, err)

	assert.Len(t, set.Visible, 3)
	assert.Len(t, set.Hidden, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCaseSet_StructuredPayload(t *testing.T) {
	repo, mock := newRepo(t)
	payload := `{"examples":[{"input":"2","expected_output":"4"}],"hidden":[{"input":"3","expected_output":"6"}]}`
	mock.ExpectQuery(loadQuery).WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"testcases"}).AddRow(payload))

	set, err := repo.LoadCaseSet(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, "2", set.Visible[0].Input)
	assert.Equal(t, "6", set.Hidden[0].ExpectedOutput)
}

func TestLoadCaseSet_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(loadQuery).WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"testcases"}))

	_, err := repo.LoadCaseSet(context.Background(), 404)
	assert.ErrorIs(t, err, errs.ErrQuestionNotFound)
}

func TestLoadCaseSet_NullPayload(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(loadQuery).WithArgs(int64(13)).
		WillReturnRows(sqlmock.NewRows([]string{"testcases"}).AddRow(nil))

	_, err := repo.LoadCaseSet(context.Background(), 13)
	assert.ErrorIs(t, err, errs.ErrMalformedTestCases)
}

func TestLoadCaseSet_DatabaseError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(loadQuery).WithArgs(int64(14)).WillReturnError(errors.New("connection refused"))

	_, err := repo.LoadCaseSet(context.Background(), 14)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrQuestionNotFound)
}

func TestLoadCaseSet_UnqualifiedWithoutSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewQuestionRepository(sqlx.NewDb(db, "postgres"), logging.NewNopLogger(), "")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT testcases FROM questions WHERE quesid = $1`)).WithArgs(int64(15)).
		WillReturnRows(sqlmock.NewRows([]string{"testcases"}).AddRow(`[{"input":"1","expected_output":"1"}]`))

	_, err = repo.LoadCaseSet(context.Background(), 15)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
