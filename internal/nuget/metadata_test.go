package nuget

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

// inlineLeaf builds a registration leaf with an inlined catalog entry.
func inlineLeaf(t *testing.T, id, version string) registrationLeaf {
	t.Helper()
	entry, err := json.Marshal(catalogEntry{ID: id, Version: version})
	if err != nil {
		t.Fatalf("marshal catalog entry: %v", err)
	}
	return registrationLeaf{CatalogEntry: entry}
}

func TestGetPackageIndex(t *testing.T) {
	t.Run("merges inline and external pages sorted by version", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()

		// Three pages: two inlined, one paged out to its own document.
		reg.handle("/registration/demo.pkg/index.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, registrationIndex{
				Count: 3,
				Items: []registrationPage{
					{Count: 2, Items: []registrationLeaf{
						inlineLeaf(t, "Demo.Pkg", "1.0.0"),
						inlineLeaf(t, "Demo.Pkg", "1.1.0"),
					}},
					{ID: reg.srv.URL + "/registration/demo.pkg/page2.json", Count: 2},
					{Count: 1, Items: []registrationLeaf{
						inlineLeaf(t, "Demo.Pkg", "3.0.0"),
					}},
				},
			})
		})
		reg.handle("/registration/demo.pkg/page2.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, registrationPage{
				Count: 2,
				Items: []registrationLeaf{
					inlineLeaf(t, "Demo.Pkg", "2.0.0"),
					inlineLeaf(t, "Demo.Pkg", "2.1.0-beta.1"),
				},
			})
		})

		c := newTestClient(reg.source("feed"))
		index, err := c.GetPackageIndex(context.Background(), "Demo.Pkg", "feed")
		if err != nil {
			t.Fatalf("GetPackageIndex: %v", err)
		}

		if len(index.Versions) != 5 {
			t.Fatalf("got %d versions, want 5 (sum of all pages)", len(index.Versions))
		}
		want := []string{"3.0.0", "2.1.0-beta.1", "2.0.0", "1.1.0", "1.0.0"}
		for i, v := range index.Versions {
			if v.Version != want[i] {
				t.Errorf("versions[%d] = %q, want %q", i, v.Version, want[i])
			}
		}
	})

	t.Run("sorts semantically, not lexically", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		reg.handle("/registration/p/index.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, registrationIndex{Items: []registrationPage{
				{Items: []registrationLeaf{
					inlineLeaf(t, "P", "1.2.0"),
					inlineLeaf(t, "P", "1.10.0"),
					inlineLeaf(t, "P", "1.10.0-rc.1"),
				}},
			}})
		})

		c := newTestClient(reg.source("feed"))
		index, err := c.GetPackageIndex(context.Background(), "P", "feed")
		if err != nil {
			t.Fatalf("GetPackageIndex: %v", err)
		}
		want := []string{"1.10.0", "1.10.0-rc.1", "1.2.0"}
		for i, v := range index.Versions {
			if v.Version != want[i] {
				t.Errorf("versions[%d] = %q, want %q", i, v.Version, want[i])
			}
		}
	})

	t.Run("404 is a package-level not-found", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		c := newTestClient(reg.source("feed"))

		_, err := c.GetPackageIndex(context.Background(), "No.Such.Package", "feed")
		if !errors.Is(err, ErrPackageNotFound) {
			t.Fatalf("expected ErrPackageNotFound, got %v", err)
		}
		if errors.Is(err, ErrVersionNotFound) {
			t.Error("package-level 404 must not be a version-level not-found")
		}
	})

	t.Run("empty source id uses the first enabled source", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		reg.handle("/registration/p/index.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, registrationIndex{Items: []registrationPage{
				{Items: []registrationLeaf{inlineLeaf(t, "P", "1.0.0")}},
			}})
		})
		disabled := Source{ID: "off", Enabled: false, IndexURL: "http://127.0.0.1:1/v3/index.json"}
		c := newTestClient(disabled, reg.source("feed"))

		index, err := c.GetPackageIndex(context.Background(), "P", "")
		if err != nil {
			t.Fatalf("GetPackageIndex: %v", err)
		}
		if len(index.Versions) != 1 {
			t.Errorf("got %d versions, want 1", len(index.Versions))
		}
	})
}

func TestGetPackageVersion(t *testing.T) {
	t.Run("inlined catalog entry", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		reg.handle("/registration/demo.pkg/1.2.3.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, inlineLeaf(t, "Demo.Pkg", "1.2.3"))
		})
		c := newTestClient(reg.source("feed"))

		details, err := c.GetPackageVersion(context.Background(), "Demo.Pkg", "1.2.3", "feed")
		if err != nil {
			t.Fatalf("GetPackageVersion: %v", err)
		}
		if details.ID != "Demo.Pkg" || details.Version != "1.2.3" {
			t.Errorf("details = %+v", details)
		}
	})

	t.Run("catalog entry as URL reference is resolved", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		catalogURL := reg.srv.URL + "/catalog/demo.pkg.1.2.3.json"
		reg.handle("/registration/demo.pkg/1.2.3.json", func(w http.ResponseWriter, r *http.Request) {
			ref, _ := json.Marshal(catalogURL)
			writeJSON(t, w, registrationLeaf{CatalogEntry: ref})
		})
		reg.handle("/catalog/demo.pkg.1.2.3.json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, catalogEntry{ID: "Demo.Pkg", Version: "1.2.3", Description: "resolved"})
		})
		c := newTestClient(reg.source("feed"))

		details, err := c.GetPackageVersion(context.Background(), "Demo.Pkg", "1.2.3", "feed")
		if err != nil {
			t.Fatalf("GetPackageVersion: %v", err)
		}
		if details.Description != "resolved" {
			t.Errorf("catalog entry was not followed: %+v", details)
		}
	})

	t.Run("leaf listed flag applies when the entry omits one", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		unlisted := false
		reg.handle("/registration/p/1.0.0.json", func(w http.ResponseWriter, r *http.Request) {
			leaf := inlineLeaf(t, "P", "1.0.0")
			leaf.Listed = &unlisted
			writeJSON(t, w, leaf)
		})
		c := newTestClient(reg.source("feed"))

		details, err := c.GetPackageVersion(context.Background(), "P", "1.0.0", "feed")
		if err != nil {
			t.Fatalf("GetPackageVersion: %v", err)
		}
		if details.Listed {
			t.Error("leaf's listed=false should apply")
		}
	})

	t.Run("404 is a version-level not-found", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		c := newTestClient(reg.source("feed"))

		_, err := c.GetPackageVersion(context.Background(), "Demo.Pkg", "9.9.9", "feed")
		if !errors.Is(err, ErrVersionNotFound) {
			t.Fatalf("expected ErrVersionNotFound, got %v", err)
		}
		if errors.Is(err, ErrPackageNotFound) {
			t.Error("version-level 404 must not be a package-level not-found")
		}
	})

	t.Run("request path lowercases id and version", func(t *testing.T) {
		reg := newFakeRegistry(t)
		reg.serveStandardIndex()
		hit := false
		reg.handle("/registration/demo.pkg/1.0.0-beta.json", func(w http.ResponseWriter, r *http.Request) {
			hit = true
			writeJSON(t, w, inlineLeaf(t, "Demo.Pkg", "1.0.0-BETA"))
		})
		c := newTestClient(reg.source("feed"))

		if _, err := c.GetPackageVersion(context.Background(), "Demo.Pkg", "1.0.0-BETA", "feed"); err != nil {
			t.Fatalf("GetPackageVersion: %v", err)
		}
		if !hit {
			t.Error("expected the lowercased leaf path to be requested")
		}
	})
}

func TestOriginScopedHeadersOnSecondaryFetches(t *testing.T) {
	// The registration index redirects one page to a different origin; the
	// credential header must not follow it there.
	other := newFakeRegistry(t)
	var leakedAuth string
	other.handle("/page2.json", func(w http.ResponseWriter, r *http.Request) {
		leakedAuth = r.Header.Get("Authorization")
		writeJSON(t, w, registrationPage{Items: []registrationLeaf{
			inlineLeaf(t, "P", "2.0.0"),
		}})
	})

	reg := newFakeRegistry(t)
	reg.serveStandardIndex()
	var sameOriginAuth string
	reg.handle("/registration/p/index.json", func(w http.ResponseWriter, r *http.Request) {
		sameOriginAuth = r.Header.Get("Authorization")
		writeJSON(t, w, registrationIndex{Items: []registrationPage{
			{ID: other.srv.URL + "/page2.json", Count: 1},
		}})
	})

	src := reg.source("feed")
	src.Auth = &AuthConfig{Type: AuthBearer, Secret: "tok"}
	c := newTestClient(src)

	if _, err := c.GetPackageIndex(context.Background(), "P", "feed"); err != nil {
		t.Fatalf("GetPackageIndex: %v", err)
	}
	if sameOriginAuth != "Bearer tok" {
		t.Errorf("same-origin request should carry credentials, got %q", sameOriginAuth)
	}
	if leakedAuth != "" {
		t.Errorf("credentials leaked to a foreign origin: %q", leakedAuth)
	}
}
