package mysql

const insertRunSQL = `
INSERT INTO analysis_runs
  (id, started_at, finished_at, reviews_in, reviews_scored, reviews_skipped, venues, median_productivity, median_social)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Rows are appended in batches of insertBatch; each row binds 10 params.
const insertScoresPrefix = "INSERT INTO venue_scores\n" +
	"  (run_id, venue_id, name, rating, review_count, total_productivity, total_social, productivity_norm, social_norm, segment)\n" +
	"VALUES "

const insertScoresRow = "(?,?,?,?,?,?,?,?,?,?)"

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const latestRunSQL = `
SELECT id, started_at, finished_at, reviews_in, reviews_scored, reviews_skipped, venues, median_productivity, median_social
FROM analysis_runs
ORDER BY finished_at DESC, id DESC
LIMIT 1
`

const venueColumns = `venue_id, name, rating, review_count, total_productivity, total_social, productivity_norm, social_norm, segment`

const getVenueSQL = `
SELECT ` + venueColumns + `
FROM venue_scores
WHERE run_id = ? AND venue_id = ?
`

// Base listing; the repo appends the optional segment filter, ORDER BY and LIMIT.
const listVenuesSQL = `
SELECT ` + venueColumns + `
FROM venue_scores
WHERE run_id = ?`
