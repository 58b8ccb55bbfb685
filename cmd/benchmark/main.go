package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/joripage/matchbook-dev/pkg/book"
)

const (
	numOrders = 1_000_000
	minPrice  = 10000
	maxPrice  = 20000
	minQty    = 1
	maxQty    = 100
)

func randomOrder(id uint64) *book.Order {
	side := book.Buy
	if rand.Intn(2) == 0 {
		side = book.Sell
	}
	price := book.Price(minPrice + rand.Intn(maxPrice-minPrice+1))
	qty := book.Quantity(rand.Intn(maxQty-minQty+1) + minQty)

	return book.NewOrder(book.GoodTillCancel, id, side, price, qty)
}

func main() {
	b := book.NewBook(book.Config{Symbol: "BENCH"})
	defer b.Close()

	totalMatched := 0
	totalQty := uint64(0)

	start := time.Now()
	for i := uint64(1); i <= numOrders; i++ {
		trades := b.AddOrder(randomOrder(i))
		for _, tr := range trades {
			totalMatched++
			totalQty += uint64(tr.Bid.Quantity)
		}
	}
	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %d\n", totalQty)
	fmt.Printf("Resting Orders   : %d\n", b.Size())
	fmt.Printf("Time Taken       : %s\n", elapsed)
	fmt.Printf("Orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
