package domain

// User is an account on the backend; Role gates the users page.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// Employee is the slim listing used by chat and assignment pickers.
type Employee struct {
	ID       UserID `json:"id"`
	FullName string `json:"full_name"`
}

type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Company     string  `json:"company,omitempty"`
	Address     string  `json:"address,omitempty"`
	TotalOrders int     `json:"total_orders"`
	TotalAmount float64 `json:"total_amount"`
}

type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	Category      string  `json:"category,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	IsActive      bool    `json:"is_active"`
}

type Order struct {
	ID           int64       `json:"id"`
	CustomerID   int64       `json:"customer_id"`
	CustomerName string      `json:"customer_name,omitempty"`
	Status       OrderStatus `json:"status"`
	TotalAmount  float64     `json:"total_amount"`
	OrderDate    Timestamp   `json:"order_date"`
	Notes        string      `json:"notes,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type Task struct {
	ID          TaskID       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  UserID       `json:"assigned_to,omitempty"`
	AssigneeName string      `json:"assignee_name,omitempty"`
	DueDate     *Timestamp   `json:"due_date,omitempty"`
	CreatedAt   Timestamp    `json:"created_at"`
}

// Notification's read flag is its only mutable field.
type Notification struct {
	ID            NotificationID `json:"id"`
	Title         string         `json:"title"`
	Message       string         `json:"message"`
	IsRead        bool           `json:"is_read"`
	RelatedTaskID *TaskID        `json:"related_task_id,omitempty"`
	CreatedAt     Timestamp      `json:"created_at"`
}

type Setting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

type DashboardStats struct {
	TotalCustomers  int     `json:"total_customers"`
	TotalProducts   int     `json:"total_products"`
	TotalOrders     int     `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingTasks    int     `json:"pending_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	TotalTasks      int     `json:"total_tasks"`
}

type TasksSummary struct {
	Total      int                  `json:"total"`
	ByStatus   map[TaskStatus]int   `json:"by_status"`
	ByPriority map[TaskPriority]int `json:"by_priority"`
	Overdue    int                  `json:"overdue"`
}

// Page describes one fetched page of a listing endpoint.
type Page struct {
	Current int `json:"current_page"`
	Total   int `json:"pages"`
	PerPage int `json:"per_page"`
}
