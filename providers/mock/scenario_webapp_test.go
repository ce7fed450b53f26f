package mock

import (
	"context"
	"regexp"
	"testing"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
)

// TestScenarioDeployWebAppWithStorageAndDB walks an end-to-end deployment:
// bucket + object, a users table via Execute, then deploy,
// scale, and update a web application.
func TestScenarioDeployWebAppWithStorageAndDB(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)

	objects, err := cf.ObjectStore()
	if err != nil {
		t.Fatalf("ObjectStore: %v", err)
	}
	if err := objects.CreateBucket(ctx, "my-app-assets", api.BucketOptions{}); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	if _, err := objects.PutObject(ctx, "my-app-assets", "config.json",
		[]byte(`{"appName":"MyAwesomeApp","version":"1.0.0"}`), "application/json", nil); err != nil {
		t.Fatalf("PutObject: %v", err)
	}

	ds, err := cf.DataStore()
	if err != nil {
		t.Fatalf("DataStore: %v", err)
	}
	if err := ds.Connect(ctx, ""); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, err := ds.Execute(ctx, "CREATE TABLE users (id SERIAL PRIMARY KEY, name VARCHAR(100), email VARCHAR(100) UNIQUE)"); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	res, err := ds.Execute(ctx, "INSERT INTO users(name,email) VALUES ($1,$2)", "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("INSERT: %v", err)
	}
	if res.RowsAffected != 1 {
		t.Fatalf("rowsAffected = %d, want 1", res.RowsAffected)
	}

	web, err := cf.WebHosting()
	if err != nil {
		t.Fatalf("WebHosting: %v", err)
	}
	dep, err := web.DeployApplication(ctx, control.DeployParams{
		Name:         "my-awesome-app",
		Image:        "myorg/awesome-app:v1.0.0",
		Port:         3000,
		Environment:  map[string]string{"NODE_ENV": "production"},
		CPU:          2,
		Memory:       4096,
		MinInstances: 2,
		MaxInstances: 10,
	})
	if err != nil {
		t.Fatalf("DeployApplication: %v", err)
	}
	urlRe := regexp.MustCompile(`^https?://`)
	if !urlRe.MatchString(dep.URL) {
		t.Fatalf("url = %q, want match of %s", dep.URL, urlRe)
	}

	if err := web.ScaleApplication(ctx, dep.ID, control.ScaleParams{MinInstances: 3, MaxInstances: 15}); err != nil {
		t.Fatalf("ScaleApplication: %v", err)
	}
	scaled, err := web.GetDeployment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("GetDeployment: %v", err)
	}
	if scaled.MinInstances != 3 || scaled.MaxInstances != 15 {
		t.Fatalf("instances = (%d, %d), want (3, 15)", scaled.MinInstances, scaled.MaxInstances)
	}

	newImage := "myorg/awesome-app:v1.1.0"
	updated, err := web.UpdateApplication(ctx, dep.ID, control.UpdateParams{
		Image:       &newImage,
		Environment: map[string]string{"NODE_ENV": "production", "FEATURE_FLAG_NEW_UI": "true"},
	})
	if err != nil {
		t.Fatalf("UpdateApplication: %v", err)
	}
	if updated.Image != newImage {
		t.Fatalf("image = %q, want %q", updated.Image, newImage)
	}
	if updated.Environment["FEATURE_FLAG_NEW_UI"] != "true" {
		t.Fatal("expected updated environment to carry the new flag")
	}

	roundTripped, err := web.GetDeployment(ctx, dep.ID)
	if err != nil {
		t.Fatalf("GetDeployment after update: %v", err)
	}
	if roundTripped.Image != newImage {
		t.Fatal("expected update to be reflected on a subsequent GetDeployment")
	}
}

// TestScaleApplicationRejectsMinGreaterThanMax: scale fails with a
// ValidationError when min > max, before any provider call.
func TestScaleApplicationRejectsMinGreaterThanMax(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	web, _ := cf.WebHosting()
	dep, err := web.DeployApplication(ctx, control.DeployParams{Name: "app", Image: "img:v1", MinInstances: 1, MaxInstances: 5})
	if err != nil {
		t.Fatalf("DeployApplication: %v", err)
	}
	err = web.ScaleApplication(ctx, dep.ID, control.ScaleParams{MinInstances: 10, MaxInstances: 5})
	if err == nil {
		t.Fatal("expected an error when min > max")
	}
}
