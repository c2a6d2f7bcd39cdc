package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/diillson/cost-of-living-go/internal/domain/entity"
	"github.com/diillson/cost-of-living-go/internal/shared/types"
)

func sampleDataset() *entity.Dataset {
	columns := []string{"City", "Country", "Meal, Inexpensive Restaurant", "Rent", "Year"}
	rows := []map[string]string{
		{"City": "Rome", "Country": "Italy", "Meal, Inexpensive Restaurant": "15.00", "Rent": "1,050.25", "Year": "2023"},
		{"City": "São Paulo", "Country": "Brazil", "Meal, Inexpensive Restaurant": "6.10", "Rent": "", "Year": "2023"},
		{"City": "Rome", "Country": "Italy", "Meal, Inexpensive Restaurant": "14.00", "Rent": "990", "Year": "2022"},
	}
	d := &entity.Dataset{Columns: columns}
	years := []int{2023, 2023, 2022}
	for i, values := range rows {
		d.Records = append(d.Records, entity.PriceRecord{
			City:    values["City"],
			Country: values["Country"],
			Year:    years[i],
			Values:  values,
		})
	}
	return d
}

func TestDatasetRepository_SaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	repo := NewDatasetRepository(dir, "all_years.csv")

	path, err := repo.Save(sampleDataset())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !filepath.IsAbs(path) || filepath.Base(path) != "all_years.csv" {
		t.Errorf("unexpected path %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.SplitN(string(raw), "\n", 2)[0]
	if header != `City;Country;Meal, Inexpensive Restaurant;Rent;Year` {
		t.Errorf("header = %q", header)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, sampleDataset()) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, sampleDataset())
	}
}

func TestDatasetRepository_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	repo := NewDatasetRepository(dir, "ds.csv")

	if _, err := repo.Save(sampleDataset()); err != nil {
		t.Fatal(err)
	}
	small := &entity.Dataset{
		Columns: []string{"City", "Year"},
		Records: []entity.PriceRecord{{City: "Oslo", Year: 2021, Values: map[string]string{"City": "Oslo", "Year": "2021"}}},
	}
	if _, err := repo.Save(small); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Records) != 1 || loaded.Records[0].City != "Oslo" {
		t.Errorf("expected the second save to replace the file, got %+v", loaded.Records)
	}
}

func TestDatasetRepository_Load(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, d *entity.Dataset)
	}{
		{
			name:    "byte order mark",
			content: "\ufeffCity;Rent;Year\nRome;900;2023\n",
			check: func(t *testing.T, d *entity.Dataset) {
				if d.Columns[0] != "City" || d.Records[0].City != "Rome" {
					t.Errorf("BOM should be stripped, got %+v", d)
				}
			},
		},
		{
			name:    "no country column",
			content: "City;Rent;Year\nRome;900;2023\n",
			check: func(t *testing.T, d *entity.Dataset) {
				if d.Records[0].Country != "" || d.HasColumn("Country") {
					t.Errorf("unexpected country %+v", d.Records[0])
				}
			},
		},
		{
			name:    "missing year column",
			content: "City;Rent\nRome;900\n",
			wantErr: "no Year column",
		},
		{
			name:    "invalid year",
			content: "City;Year\nRome;soon\n",
			wantErr: "invalid year",
		},
		{
			name:    "empty file",
			content: "",
			wantErr: "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "ds.csv"), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			d, err := NewDatasetRepository(dir, "ds.csv").Load()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, d)
		})
	}
}

func TestDatasetRepository_LoadMissingFile(t *testing.T) {
	_, err := NewDatasetRepository(t.TempDir(), "missing.csv").Load()
	if !errors.Is(err, types.ErrDatasetNotFound) {
		t.Fatalf("expected ErrDatasetNotFound, got %v", err)
	}
}
