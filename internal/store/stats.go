package store

import "database/sql"

type DashboardStats struct {
	TotalProducts  int            `json:"totalProducts"`
	TotalOrders    int            `json:"totalOrders"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
	TotalRevenue   float64        `json:"totalRevenue"`
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
// Revenue sums totalAmount over completed orders only.
func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.DB.QueryRow("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'completed'").Scan(&stats.TotalRevenue)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}
