package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-booking/internal/model"
)

// PackageRepo stores the photography and catering add-on catalog.
type PackageRepo struct {
	db *sql.DB
}

func NewPackageRepo(db *sql.DB) *PackageRepo { return &PackageRepo{db: db} }

const photographyColumns = `id, name, description, photo_count, price, photographers_count,
	includes_editing, includes_album, is_active`

const cateringColumns = `id, name, description, meal_type, price_per_plate, supports_veg,
	supports_nonveg, menu_type, is_active`

func scanPhotography(row rowScanner) (model.PhotographyPackage, error) {
	var p model.PhotographyPackage
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PhotoCount, &p.Price, &p.PhotographersCount,
		&p.IncludesEditing, &p.IncludesAlbum, &p.IsActive)
	return p, err
}

func scanCatering(row rowScanner) (model.CateringPackage, error) {
	var p model.CateringPackage
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.MealType, &p.PricePerPlate, &p.SupportsVeg,
		&p.SupportsNonVeg, &p.MenuType, &p.IsActive)
	return p, err
}

// ---- Photography ----

// ListPhotography returns photography packages, optionally only active ones.
func (r *PackageRepo) ListPhotography(ctx context.Context, activeOnly bool) ([]model.PhotographyPackage, error) {
	q := "SELECT " + photographyColumns + " FROM photography_packages"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PhotographyPackage{}
	for rows.Next() {
		p, err := scanPhotography(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPhotography fetches a package regardless of its active flag.
func (r *PackageRepo) GetPhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error) {
	p, err := scanPhotography(r.db.QueryRowContext(ctx,
		"SELECT "+photographyColumns+" FROM photography_packages WHERE id=?", id))
	return p, notFound(err)
}

// GetActivePhotography fetches a package only if it is active; inactive
// packages are reported as ErrNotFound.
func (r *PackageRepo) GetActivePhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error) {
	p, err := scanPhotography(r.db.QueryRowContext(ctx,
		"SELECT "+photographyColumns+" FROM photography_packages WHERE id=? AND is_active = 1", id))
	return p, notFound(err)
}

func (r *PackageRepo) CreatePhotography(ctx context.Context, p *model.PhotographyPackage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO photography_packages (name, description, photo_count, price, photographers_count,
		 includes_editing, includes_album, is_active) VALUES (?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.PhotoCount, p.Price, p.PhotographersCount,
		p.IncludesEditing, p.IncludesAlbum, p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *PackageRepo) UpdatePhotography(ctx context.Context, p *model.PhotographyPackage) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE photography_packages SET name=?, description=?, photo_count=?, price=?, photographers_count=?,
		 includes_editing=?, includes_album=?, is_active=? WHERE id=?`,
		p.Name, p.Description, p.PhotoCount, p.Price, p.PhotographersCount,
		p.IncludesEditing, p.IncludesAlbum, p.IsActive, p.ID))
}

// DeletePhotography removes a package.  Booked services keep their price
// and lose the package reference.
func (r *PackageRepo) DeletePhotography(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM photography_packages WHERE id=?", id))
}

// ---- Catering ----

// ListCatering returns catering packages, optionally only active ones.
func (r *PackageRepo) ListCatering(ctx context.Context, activeOnly bool) ([]model.CateringPackage, error) {
	q := "SELECT " + cateringColumns + " FROM catering_packages"
	if activeOnly {
		q += " WHERE is_active = 1"
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CateringPackage{}
	for rows.Next() {
		p, err := scanCatering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PackageRepo) GetCatering(ctx context.Context, id uint64) (model.CateringPackage, error) {
	p, err := scanCatering(r.db.QueryRowContext(ctx,
		"SELECT "+cateringColumns+" FROM catering_packages WHERE id=?", id))
	return p, notFound(err)
}

// GetActiveCatering mirrors GetActivePhotography for catering.
func (r *PackageRepo) GetActiveCatering(ctx context.Context, id uint64) (model.CateringPackage, error) {
	p, err := scanCatering(r.db.QueryRowContext(ctx,
		"SELECT "+cateringColumns+" FROM catering_packages WHERE id=? AND is_active = 1", id))
	return p, notFound(err)
}

func (r *PackageRepo) CreateCatering(ctx context.Context, p *model.CateringPackage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO catering_packages (name, description, meal_type, price_per_plate, supports_veg,
		 supports_nonveg, menu_type, is_active) VALUES (?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.MealType, p.PricePerPlate, p.SupportsVeg,
		p.SupportsNonVeg, p.MenuType, p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *PackageRepo) UpdateCatering(ctx context.Context, p *model.CateringPackage) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE catering_packages SET name=?, description=?, meal_type=?, price_per_plate=?, supports_veg=?,
		 supports_nonveg=?, menu_type=?, is_active=? WHERE id=?`,
		p.Name, p.Description, p.MealType, p.PricePerPlate, p.SupportsVeg,
		p.SupportsNonVeg, p.MenuType, p.IsActive, p.ID))
}

func (r *PackageRepo) DeleteCatering(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM catering_packages WHERE id=?", id))
}
