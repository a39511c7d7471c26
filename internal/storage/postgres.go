package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sufra-pos/internal/domain"
)

const (
	txTimeout   = 10 * time.Second
	lockTimeout = "5s"
)

// PostgresRepository implements the order, catalog and directory repository
// ports on one *sql.DB.
type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// CreateOrder inserts the order, its items, the first history row and the
// table-occupancy update in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order, tableID *int) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, order_type, customer_type, status,
			subtotal, tax_amount, delivery_fee, total_amount,
			customer_id, company_id, table_id, delivery_area_id, cashier_id,
			special_instructions, is_paid, estimated_ready_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, false, $15)
		RETURNING id, created_at
	`, order.OrderNumber, order.OrderType, order.CustomerType, order.Status,
		order.Subtotal, order.TaxAmount, order.DeliveryFee, order.TotalAmount,
		order.CustomerID, order.CompanyID, order.TableID, order.DeliveryAreaID, order.CashierID,
		order.SpecialInstructions, order.EstimatedReadyTime,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, item_type, item_id, recipe_id, meal_id,
				cooking_method_id, name, quantity, unit_price, total_price,
				status, special_instructions
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`, item.OrderID, item.ItemType, item.ItemID, item.RecipeID, item.MealID,
			item.CookingMethodID, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice,
			item.Status, item.SpecialInstructions,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	if tableID != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tables SET status = $1 WHERE id = $2",
			domain.TableOccupied, *tableID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, staff_id, note)
		VALUES ($1, '', $2, $3, $4)
	`, order.ID, order.Status, order.CashierID, "Order created"); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := r.scanOrder(ctx, r.DB, orderID, false)
	if err != nil || order == nil {
		return order, err
	}
	items, err := r.orderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *PostgresRepository) scanOrder(ctx context.Context, q rowQuerier, orderID int, forUpdate bool) (*domain.Order, error) {
	query := `
		SELECT id, order_number, order_type, customer_type, status,
			subtotal, tax_amount, delivery_fee, total_amount,
			customer_id, company_id, table_id, delivery_area_id,
			cashier_id, kitchen_staff_id, hall_manager_id, delivery_staff_id,
			COALESCE(special_instructions, ''), is_paid, estimated_ready_time,
			confirmed_at, kitchen_start_at, ready_at, served_at, delivered_at,
			created_at
		FROM orders WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var order domain.Order
	err := q.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID, &order.OrderNumber, &order.OrderType, &order.CustomerType, &order.Status,
		&order.Subtotal, &order.TaxAmount, &order.DeliveryFee, &order.TotalAmount,
		&order.CustomerID, &order.CompanyID, &order.TableID, &order.DeliveryAreaID,
		&order.CashierID, &order.KitchenStaffID, &order.HallManagerID, &order.DeliveryStaffID,
		&order.SpecialInstructions, &order.IsPaid, &order.EstimatedReadyTime,
		&order.ConfirmedAt, &order.KitchenStartAt, &order.ReadyAt, &order.ServedAt, &order.DeliveredAt,
		&order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) orderItems(ctx context.Context, orderID int) ([]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, item_type, item_id, recipe_id, meal_id,
			cooking_method_id, name, quantity, unit_price, total_price,
			status, COALESCE(special_instructions, '')
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ItemType,
			&item.ItemID, &item.RecipeID, &item.MealID,
			&item.CookingMethodID, &item.Name, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice,
			&item.Status, &item.SpecialInstructions); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// stampColumn maps a target status to the timestamp it sets.
func stampColumn(status domain.OrderStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return "confirmed_at"
	case domain.StatusPreparing:
		return "kitchen_start_at"
	case domain.StatusReady:
		return "ready_at"
	case domain.StatusServed:
		return "served_at"
	case domain.StatusDelivered:
		return "delivered_at"
	}
	return ""
}

// TransitionOrder serializes concurrent status changes on one order: the row
// is locked, the current status re-read under the lock, and the plan applied
// in the same transaction.
func (r *PostgresRepository) TransitionOrder(ctx context.Context, orderID int, decide func(current *domain.Order) (*domain.TransitionPlan, error)) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		return nil, err
	}

	current, err := r.scanOrder(ctx, tx, orderID, true)
	if err != nil {
		return nil, err
	}

	plan, err := decide(current)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return r.GetOrder(ctx, orderID)
	}

	set := "status = $1"
	args := []interface{}{plan.To}
	if col := stampColumn(plan.To); col != "" {
		set += fmt.Sprintf(", %s = $%d", col, len(args)+1)
		args = append(args, plan.At)
	}
	if plan.AssignKitchen != nil {
		set += fmt.Sprintf(", kitchen_staff_id = $%d", len(args)+1)
		args = append(args, *plan.AssignKitchen)
	}
	if plan.AssignHall != nil {
		set += fmt.Sprintf(", hall_manager_id = $%d", len(args)+1)
		args = append(args, *plan.AssignHall)
	}
	if plan.AssignDelivery != nil {
		set += fmt.Sprintf(", delivery_staff_id = $%d", len(args)+1)
		args = append(args, *plan.AssignDelivery)
	}
	args = append(args, orderID)
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", set, len(args)), args...); err != nil {
		return nil, err
	}

	if plan.Cascade != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE order_items SET status = $1 WHERE order_id = $2 AND status = $3",
			plan.Cascade.To, orderID, plan.Cascade.From); err != nil {
			return nil, err
		}
	}

	if plan.ReleaseTable && current.TableID != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tables SET status = $1 WHERE id = $2",
			domain.TableAvailable, *current.TableID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, staff_id, note)
		VALUES ($1, $2, $3, $4, $5)
	`, orderID, plan.History.OldStatus, plan.History.NewStatus,
		plan.History.StaffID, plan.History.Note); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, orderID)
}

func (r *PostgresRepository) SaveReceiptQR(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE orders SET receipt_qr = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *PostgresRepository) GetReceiptQR(ctx context.Context, orderID int) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, "SELECT receipt_qr FROM orders WHERE id = $1", orderID).Scan(&qr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return qr, nil
}

func (r *PostgresRepository) GetCatalogEntry(ctx context.Context, itemType domain.LineItemType, id int) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var err error
	switch itemType {
	case domain.LineTypeItem:
		var stock sql.NullInt64
		err = r.DB.QueryRowContext(ctx, `
			SELECT name, price, is_available, current_stock
			FROM items WHERE id = $1 AND deleted_at IS NULL
		`, id).Scan(&entry.Name, &entry.BasePrice, &entry.IsAvailable, &stock)
		if stock.Valid {
			v := int(stock.Int64)
			entry.CurrentStock = &v
		}
	case domain.LineTypeRecipe:
		var prep sql.NullInt64
		err = r.DB.QueryRowContext(ctx, `
			SELECT name, price, is_available, preparation_time
			FROM recipes WHERE id = $1 AND deleted_at IS NULL
		`, id).Scan(&entry.Name, &entry.BasePrice, &entry.IsAvailable, &prep)
		if prep.Valid {
			v := int(prep.Int64)
			entry.PrepTime = &v
		}
	case domain.LineTypeMeal:
		var prep sql.NullInt64
		err = r.DB.QueryRowContext(ctx, `
			SELECT name, price, is_available, preparation_time
			FROM meals WHERE id = $1 AND deleted_at IS NULL
		`, id).Scan(&entry.Name, &entry.BasePrice, &entry.IsAvailable, &prep)
		if prep.Valid {
			v := int(prep.Int64)
			entry.PrepTime = &v
		}
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) GetCookingMethod(ctx context.Context, id int) (*domain.CookingMethod, error) {
	var method domain.CookingMethod
	err := r.DB.QueryRowContext(ctx, `
		SELECT name, additional_cost, is_available, COALESCE(extra_time, 0)
		FROM cooking_methods WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&method.Name, &method.AdditionalCost, &method.IsAvailable, &method.ExtraTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *PostgresRepository) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	var c domain.Customer
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(phone, ''), is_active
		FROM customers WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) GetCompany(ctx context.Context, id int) (*domain.Company, error) {
	var c domain.Company
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(tax_id, ''), is_active
		FROM companies WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&c.ID, &c.Name, &c.TaxID, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) GetTable(ctx context.Context, id int) (*domain.Table, error) {
	var t domain.Table
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, number, seats, status
		FROM tables WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&t.ID, &t.Number, &t.Seats, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) GetDeliveryArea(ctx context.Context, id int) (*domain.DeliveryArea, error) {
	var a domain.DeliveryArea
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, fee, COALESCE(estimated_delivery_time, 0), is_active
		FROM delivery_areas WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&a.ID, &a.Name, &a.Fee, &a.EstimatedDeliveryTime, &a.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			order_type TEXT NOT NULL,
			customer_type TEXT NOT NULL,
			status TEXT NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL,
			tax_amount NUMERIC(12,2) NOT NULL,
			delivery_fee NUMERIC(12,2) NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			customer_id INT,
			company_id INT,
			table_id INT,
			delivery_area_id INT,
			cashier_id INT,
			kitchen_staff_id INT,
			hall_manager_id INT,
			delivery_staff_id INT,
			special_instructions TEXT,
			is_paid BOOLEAN NOT NULL DEFAULT false,
			estimated_ready_time TIMESTAMPTZ,
			confirmed_at TIMESTAMPTZ,
			kitchen_start_at TIMESTAMPTZ,
			ready_at TIMESTAMPTZ,
			served_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ,
			receipt_qr BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id),
			item_type TEXT NOT NULL,
			item_id INT,
			recipe_id INT,
			meal_id INT,
			cooking_method_id INT,
			name TEXT NOT NULL,
			quantity INT NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			total_price NUMERIC(12,2) NOT NULL,
			status TEXT NOT NULL,
			special_instructions TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_status_history (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id),
			old_status TEXT NOT NULL DEFAULT '',
			new_status TEXT NOT NULL,
			staff_id INT,
			note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
