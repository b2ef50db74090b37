package response

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_JSON(t *testing.T) {
	body, err := json.Marshal(OK("Workout logged successfully!").WithRedirect("/dashboard"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","notice":"Workout logged successfully!","level":"success","redirect":"/dashboard"}`, string(body))

	body, err = json.Marshal(Error("Please select a date."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Error","notice":"Please select a date.","level":"error"}`, string(body))

	body, err = json.Marshal(StatusOKWithData(map[string]int{"total_workouts": 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","data":{"total_workouts":3}}`, string(body))
}

func TestResponse_WithRedirectDoesNotMutate(t *testing.T) {
	base := Warning("Please log in first.")
	_ = base.WithRedirect("/login")
	assert.Empty(t, base.Redirect)
}

func TestResponse_Levels(t *testing.T) {
	assert.Equal(t, LevelInfo, Info("You have been logged out.").Level)
	assert.Equal(t, StatusOK, Info("You have been logged out.").Status)
	assert.Equal(t, LevelWarning, Warning("Please log in first.").Level)
	assert.Equal(t, StatusError, Warning("Please log in first.").Status)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Username string `validate:"required"`
		Email    string `validate:"required,email"`
	}

	err := validator.New().Struct(request{Email: "not-an-email"})
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	resp := ValidationError(errs)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Notice, "field Username is a required field")
	assert.Contains(t, resp.Notice, "field Email must be a valid email")
}
