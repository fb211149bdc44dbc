//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"coffee_persona/internal/adapters/dataset"
	httpserver "coffee_persona/internal/adapters/http_server"
	redisad "coffee_persona/internal/adapters/redis"
	"coffee_persona/internal/adapters/sastrawi"
	"coffee_persona/internal/app"
	"coffee_persona/internal/domain"
	"coffee_persona/internal/lexicon"
	"coffee_persona/internal/persona"
	mysqlrepo "coffee_persona/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func writeCSV(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const shops = "Id;RateStars;ReviewsTotalCount;OrganizationAddress\n" +
	"v1;4,6;40;Ruang Kerja Kopi, Jl. Merdeka 1\n" +
	"v2;4,2;80;Kedai Kumpul, Jl. Braga 7\n" +
	"v3;4,8;25;Kopi Tengah, Jl. Asia Afrika 3\n" +
	"v4;3,9;12;Warung Biasa, Jl. Dago 9\n"

const reviews = "OrganizationId;ReviewTextOriginal\n" +
	"v1;Kerja dan tugas kantor beres, kerja terus\n" +
	"v2;Teman teman kumpul di sini\n" +
	"v3;Kerja sambil ketemu teman\n" +
	"v4;Biasa saja\n"

// ---------- the E2E test ----------

func TestE2E_AnalyzeThenServe(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=coffee"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/coffee?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	repo := mysqlrepo.New(db)

	// analyze
	dir := t.TempDir()
	src, err := dataset.New(writeCSV(t, dir, "shops.csv", shops), writeCSV(t, dir, "reviews.csv", reviews), dataset.EncodingUTF8)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	lx, err := lexicon.Load("")
	if err != nil {
		t.Fatalf("lexicon: %v", err)
	}
	scorer, err := lx.Scorer(sastrawi.New())
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}
	engine := persona.NewEngine(scorer, persona.Options{Workers: 2})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	out, err := app.NewAnalysisService(src, engine, repo, cache).Run(ctx)
	if err != nil {
		t.Fatalf("analysis: %v", err)
	}

	// serve
	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{Q: app.NewQueryService(repo, cache, time.Minute), TopN: 3})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	var run domain.AnalysisRun
	getJSON(t, ts.URL+"/v1/runs/latest", &run)
	if run.ID != out.Run.ID || run.Venues != 4 {
		t.Fatalf("latest run: %+v", run)
	}

	want := map[domain.Segment]string{
		domain.SegmentProductivityHub: "v1",
		domain.SegmentSocialHotspot:   "v2",
		domain.SegmentAllRounder:      "v3",
		domain.SegmentGeneralPurpose:  "v4",
	}
	for seg, id := range want {
		var page domain.VenuesPage
		getJSON(t, ts.URL+"/v1/recommendations?segment="+string(seg), &page)
		if len(page.Items) != 1 || page.Items[0].VenueID != id {
			t.Fatalf("%s: got %+v, want %s", seg, page.Items, id)
		}
	}

	var v1 domain.VenueProfile
	getJSON(t, ts.URL+"/v1/venues/v1", &v1)
	if v1.Name != "Ruang Kerja Kopi" || v1.Rating != 4.6 || v1.ProductivityNorm != 1 {
		t.Fatalf("venue v1: %+v", v1)
	}
	if !mr.Exists(fmt.Sprintf("venue:%s:v1", run.ID)) {
		t.Fatal("venue response was not cached")
	}
}

func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}
