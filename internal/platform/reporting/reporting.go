package reporting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinmart/clinmart/internal/platform/auth"
)

// MeasureDefinition defines a reporting measure with its SQL query.
type MeasureDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SQL         string   `json:"sql"`
	Parameters  []string `json:"parameters"`
}

// MeasureReport holds the results of evaluating a measure.
type MeasureReport struct {
	MeasureID   string                   `json:"measure_id"`
	MeasureName string                   `json:"measure_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Results     []map[string]interface{} `json:"results"`
	Parameters  map[string]string        `json:"parameters,omitempty"`
}

// PredefinedMeasures is the list of available reporting measures over
// the mart tables.
var PredefinedMeasures = []MeasureDefinition{
	{
		ID:          "encounter-volume-by-month",
		Name:        "Encounter Volume by Month",
		Description: "Number of consolidated encounters per admission month",
		SQL:         `SELECT date_trunc('month', admission_date)::date AS month_start, COUNT(*) AS total FROM encounter_fact GROUP BY 1 ORDER BY 1`,
		Parameters:  []string{},
	},
	{
		ID:          "cost-by-specialty",
		Name:        "Cost by Specialty",
		Description: "Total and average cost per physician specialty across all months",
		SQL:         `SELECT specialty, SUM(total_cost) AS total_cost, ROUND(AVG(avg_cost)::numeric, 2) AS avg_cost FROM monthly_cost_summary GROUP BY specialty ORDER BY total_cost DESC`,
		Parameters:  []string{},
	},
	{
		ID:          "readmission-rate",
		Name:        "Readmission Rate",
		Description: "Readmission pairs and the share within the seven-day window",
		SQL:         `SELECT COUNT(*) AS pairs, COALESCE(SUM(CASE WHEN within_7_days THEN 1 ELSE 0 END), 0) AS within_7_days FROM readmission`,
		Parameters:  []string{},
	},
	{
		ID:          "age-group-distribution",
		Name:        "Age Group Distribution",
		Description: "Consolidated encounters per patient age band",
		SQL:         `SELECT age_group, COUNT(*) AS total FROM encounter_fact GROUP BY age_group ORDER BY age_group`,
		Parameters:  []string{},
	},
	{
		ID:          "emergency-share",
		Name:        "Emergency Share",
		Description: "Emergency versus non-emergency encounter counts",
		SQL:         `SELECT is_emergency, COUNT(*) AS total FROM encounter_fact GROUP BY is_emergency ORDER BY is_emergency DESC`,
		Parameters:  []string{},
	},
}

// Handler provides HTTP handlers for the reporting API.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler creates a new reporting handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// RegisterRoutes registers the reporting API routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	reportGroup := api.Group("/reports", auth.RequireRole("admin", "analyst"))
	reportGroup.GET("/measures", h.ListMeasures)
	reportGroup.GET("/measures/:id/evaluate", h.EvaluateMeasure)
}

// ListMeasures returns all available measure definitions.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedMeasures)
}

// EvaluateMeasure executes a measure's SQL and returns the results.
func (h *Handler) EvaluateMeasure(c echo.Context) error {
	measureID := c.Param("id")

	measure := FindMeasure(measureID)
	if measure == nil {
		return echo.NewHTTPError(http.StatusNotFound, "measure not found")
	}

	params := map[string]string{}
	for _, p := range measure.Parameters {
		if v := c.QueryParam(p); v != "" {
			params[p] = v
		}
	}

	results, err := h.executeSQL(c.Request().Context(), measure.SQL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("query failed: %v", err))
	}

	report := MeasureReport{
		MeasureID:   measure.ID,
		MeasureName: measure.Name,
		GeneratedAt: time.Now(),
		Results:     results,
		Parameters:  params,
	}

	return c.JSON(http.StatusOK, report)
}

// executeSQL runs a SQL query and returns results as a slice of maps.
func (h *Handler) executeSQL(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	var results []map[string]interface{}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		results = append(results, row)
	}

	if results == nil {
		results = []map[string]interface{}{}
	}

	return results, nil
}

// FindMeasure looks up a measure by ID.
func FindMeasure(id string) *MeasureDefinition {
	for i := range PredefinedMeasures {
		if PredefinedMeasures[i].ID == id {
			return &PredefinedMeasures[i]
		}
	}
	return nil
}
