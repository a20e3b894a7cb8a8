package reports

import "time"

type StatsResponse struct {
	TotalEquipment int64 `json:"total_equipment"`
	Available      int64 `json:"available"`
	OnLoan         int64 `json:"on_loan"`
	Maintenance    int64 `json:"maintenance"`
	Overdue        int64 `json:"overdue"`
}

type OverdueDetail struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Model              string    `json:"model"`
	BorrowerName       string    `json:"borrower_name"`
	BorrowerEmail      string    `json:"borrower_email"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	DaysOverdue        int       `json:"days_overdue"`
	Status             string    `json:"status"`
}
