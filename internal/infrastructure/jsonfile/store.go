package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ibook/internal/domain/inventory"
	"ibook/internal/observability"
)

// Store persists catalog snapshots as a single pretty-printed JSON file.
// Writes go through a temp file in the same directory followed by a
// rename, so readers never observe a half-written snapshot.
type Store struct {
	path string
	log  observability.Logger
}

func NewStore(path string, log observability.Logger) *Store {
	if log == nil {
		log = observability.NopLogger()
	}
	return &Store{path: path, log: log.With(observability.F("component", "jsonfile_store"))}
}

func (s *Store) Path() string { return s.path }

type itemRecord struct {
	ExpiryDate string `json:"expiry_date"`
	Quantity   int    `json:"quantity"`
}

type productRecord struct {
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Items       []itemRecord `json:"items"`
}

type snapshotFile struct {
	Products []productRecord `json:"products"`
}

// Save writes the given products to disk, replacing any previous snapshot.
func (s *Store) Save(products []*inventory.Product) error {
	file := snapshotFile{Products: make([]productRecord, 0, len(products))}
	for _, product := range products {
		record := productRecord{
			Name:        product.Name().String(),
			Category:    product.Category().String(),
			Description: product.Description().String(),
			Price:       product.Price().Amount(),
			Items:       make([]itemRecord, 0, product.ItemCount()),
		}
		for _, item := range product.Items() {
			record.Items = append(record.Items, itemRecord{
				ExpiryDate: item.ExpiryDate().String(),
				Quantity:   item.Quantity().Value(),
			})
		}
		file.Products = append(file.Products, record)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot file and reconstructs the products through the
// domain constructors, so a hand-edited or stale file that violates the
// model's rules is rejected rather than smuggled in. A missing file is
// not an error; it yields an empty catalog.
func (s *Store) Load() ([]*inventory.Product, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("snapshot_missing", observability.F("path", s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("jsonfile: read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("jsonfile: decode snapshot: %w", err)
	}

	products := make([]*inventory.Product, 0, len(file.Products))
	for _, record := range file.Products {
		product, err := record.toDomain()
		if err != nil {
			return nil, fmt.Errorf("jsonfile: product %q/%q: %w", record.Name, record.Category, err)
		}
		products = append(products, product)
	}
	return products, nil
}

func (r productRecord) toDomain() (*inventory.Product, error) {
	name, err := inventory.NewName(r.Name)
	if err != nil {
		return nil, err
	}
	category, err := inventory.NewCategory(r.Category)
	if err != nil {
		return nil, err
	}
	description, err := inventory.NewDescription(r.Description)
	if err != nil {
		return nil, err
	}
	price, err := inventory.NewPrice(r.Price)
	if err != nil {
		return nil, err
	}
	key, err := inventory.NewProductKey(r.Name, r.Category)
	if err != nil {
		return nil, err
	}

	items := make([]inventory.Item, 0, len(r.Items))
	for _, record := range r.Items {
		expiry, err := inventory.NewExpiryDate(record.ExpiryDate)
		if err != nil {
			return nil, err
		}
		quantity, err := inventory.NewQuantity(record.Quantity)
		if err != nil {
			return nil, err
		}
		item, err := inventory.NewItem(key, expiry, quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return inventory.NewProduct(name, category, description, price, items)
}
