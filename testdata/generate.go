package main

import (
	"log"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Employee struct {
	ID     int64     `parquet:"id"`
	Name   string    `parquet:"name"`
	Dept   string    `parquet:"dept"`
	Salary float64   `parquet:"salary"`
	Bonus  *int64    `parquet:"bonus,optional"`
	Hired  time.Time `parquet:"hired"`
}

func bonus(v int64) *int64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		log.Fatal(err)
	}
	return t
}

func main() {
	employees := []Employee{
		{ID: 1, Name: "alice", Dept: "eng", Salary: 120000, Bonus: bonus(5000), Hired: day("2019-03-01")},
		{ID: 2, Name: "bob", Dept: "eng", Salary: 95000, Hired: day("2021-07-15")},
		{ID: 3, Name: "charlie", Dept: "eng", Salary: 120000, Bonus: bonus(3000), Hired: day("2020-01-10")},
		{ID: 4, Name: "diana", Dept: "ops", Salary: 70000, Bonus: bonus(1000), Hired: day("2018-11-20")},
		{ID: 5, Name: "eve", Dept: "ops", Salary: 82000, Hired: day("2022-02-01")},
		{ID: 6, Name: "frank", Dept: "sales", Salary: 64000, Bonus: bonus(8000), Hired: day("2020-06-30")},
		{ID: 7, Name: "grace", Dept: "sales", Salary: 71000, Bonus: bonus(6500), Hired: day("2019-09-09")},
		{ID: 8, Name: "heidi", Dept: "sales", Salary: 64000, Hired: day("2023-04-17")},
	}

	file, err := os.Create("employees.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Employee](file)
	defer writer.Close()

	if _, err := writer.Write(employees); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated employees.parquet with %d employees", len(employees))
}
