package fetch

// User mirrors an entry of /users.
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`
	Address  Address `json:"address"`
}

// Company is the employer block of a User.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
}

// Address is the postal block of a User.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// Post mirrors an entry of /posts.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
