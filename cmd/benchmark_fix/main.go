package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	fix44ocrr "github.com/quickfixgo/fix44/ordercancelreplacerequest"
	fix44ocr "github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

var (
	scenario = flag.String("scenario", "limit", "limit | market | amend | cancel")
	total    = flag.Int("total", 125_000, "crossing order pairs for the limit scenario")
	symbol   = flag.String("symbol", "VND", "symbol to trade")
)

type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) {
	a.sessionID = &sessionID
}

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("Logon success")

	switch *scenario {
	case "market":
		go sendMatchMarket(sessionID)
	case "amend":
		go sendMatchAmend(sessionID)
	case "cancel":
		go sendCancelOrder(sessionID)
	default:
		go sendMatchLimit(sessionID)
	}
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func newLimitOrder(sessionID quickfix.SessionID, side enum.Side, price, qty int64) fix44nos.NewOrderSingle {
	order := fix44nos.New(
		field.NewClOrdID(""),
		field.NewSide(side),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_LIMIT))
	order.SetAccount("TMT")
	order.SetSymbol(*symbol)
	order.SetPrice(decimal.NewFromInt(price), 0)
	order.SetOrderQty(decimal.NewFromInt(qty), 0)
	order.SetTimeInForce(enum.TimeInForce_GOOD_TILL_CANCEL)
	order.SetSenderCompID(sessionID.SenderCompID)
	order.SetTargetCompID(sessionID.TargetCompID)
	order.SetClOrdID(randSeq(17))
	return order
}

// sendMatchLimit floods crossing pairs at one price so every pair trades.
func sendMatchLimit(sessionID quickfix.SessionID) {
	start := time.Now()
	minQty, maxQty := 10, 50

	log.Printf("Sending %d orders", *total*2)
	for i := 0; i < *total; i++ {
		buyQty := int64(rand.Intn(maxQty-minQty) + minQty)
		if err := quickfix.Send(newLimitOrder(sessionID, enum.Side_BUY, 15600, buyQty)); err != nil {
			log.Println(err)
		}

		sellQty := int64(rand.Intn(maxQty-minQty) + minQty)
		if err := quickfix.Send(newLimitOrder(sessionID, enum.Side_SELL, 15600, sellQty)); err != nil {
			log.Println(err)
		}
	}

	elapsed := time.Since(start)
	msgsPerSec := float64(*total*2) / elapsed.Seconds()
	log.Printf("Sent %d messages in %v", *total*2, elapsed)
	log.Printf("Throughput: %.2f messages/sec", msgsPerSec)
}

func sendMatchMarket(sessionID quickfix.SessionID) {
	if err := quickfix.Send(newLimitOrder(sessionID, enum.Side_BUY, 13000, 1000)); err != nil {
		log.Println(err)
	}

	orderSell := fix44nos.New(
		field.NewClOrdID(""),
		field.NewSide(enum.Side_SELL),
		field.NewTransactTime(time.Now()),
		field.NewOrdType(enum.OrdType_MARKET))
	orderSell.SetAccount("TMT")
	orderSell.SetSymbol(*symbol)
	orderSell.SetOrderQty(decimal.NewFromInt(500), 0)
	orderSell.SetSenderCompID(sessionID.SenderCompID)
	orderSell.SetTargetCompID(sessionID.TargetCompID)
	orderSell.SetClOrdID(randSeq(17))
	if err := quickfix.Send(orderSell); err != nil {
		log.Println(err)
	}
}

func sendMatchAmend(sessionID quickfix.SessionID) {
	if err := quickfix.Send(newLimitOrder(sessionID, enum.Side_BUY, 13000, 1000)); err != nil {
		log.Println(err)
	}

	orderSellID := randSeq(17)
	orderSell := newLimitOrder(sessionID, enum.Side_SELL, 13500, 500)
	orderSell.SetClOrdID(orderSellID)
	if err := quickfix.Send(orderSell); err != nil {
		log.Println(err)
	}

	go func() {
		<-time.After(5 * time.Second)
		// reprice the sell down so it crosses the resting buy
		orderSellReplace := fix44ocrr.New(
			field.NewOrigClOrdID(orderSellID),
			field.NewClOrdID(randSeq(17)),
			field.NewSide(enum.Side_SELL),
			field.NewTransactTime(time.Now()),
			field.NewOrdType(enum.OrdType_LIMIT))
		orderSellReplace.SetAccount("TMT")
		orderSellReplace.SetSymbol(*symbol)
		orderSellReplace.SetPrice(decimal.NewFromInt(13000), 0)
		orderSellReplace.SetOrderQty(decimal.NewFromInt(500), 0)
		orderSellReplace.SetTimeInForce(enum.TimeInForce_GOOD_TILL_CANCEL)
		orderSellReplace.SetSenderCompID(sessionID.SenderCompID)
		orderSellReplace.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(orderSellReplace); err != nil {
			log.Println(err)
		}
	}()
}

func sendCancelOrder(sessionID quickfix.SessionID) {
	buyClOrderID := randSeq(17)
	orderBuy := newLimitOrder(sessionID, enum.Side_BUY, 15600, 100)
	orderBuy.SetClOrdID(buyClOrderID)
	if err := quickfix.Send(orderBuy); err != nil {
		log.Println(err)
	}

	go func() {
		<-time.After(5 * time.Second)
		orderBuyCancel := fix44ocr.New(
			field.NewOrigClOrdID(buyClOrderID),
			field.NewClOrdID(randSeq(17)),
			field.NewSide(enum.Side_BUY),
			field.NewTransactTime(time.Now()))
		orderBuyCancel.SetAccount("TMT")
		orderBuyCancel.SetSymbol(*symbol)
		orderBuyCancel.SetSenderCompID(sessionID.SenderCompID)
		orderBuyCancel.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(orderBuyCancel); err != nil {
			log.Println(err)
		}
	}()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: benchmark_fix [flags] <initiator.cfg>")
	}
	cfgPath := flag.Arg(0)
	log.Println("cfgPath:", cfgPath)
	app := &InitiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close() // nolint

	appSettings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory, _ := file.NewLogFactory(appSettings)

	initiator, err := quickfix.NewInitiator(app, storeFactory, appSettings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	err = initiator.Start()
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Initiator started...")

	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
