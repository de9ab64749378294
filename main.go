package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/asdine/storm"
	"github.com/caarlos0/env"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/tarm/serial"

	"github.com/codebotair/codebot/onboard"
)

const SERIAL_POLL = 50 * time.Millisecond

type EnvConfig struct {
	JWT_ISSUER string `env:"CODEBOT_UUID" envDefault:"DEV"`
	DEBUG      bool   `env:"DEBUG" envDefault:"0"`
	SRCDIR     string `env:"SRCDIR" envDefault:"."`
	DB         *storm.DB
	Bot        *onboard.Codebot
	Simulated  bool
}

var (
	ENV *EnvConfig
)

func init() {
	ENV = new(EnvConfig)
	env.Parse(ENV)

	// user database lives next to the binary; speed is deliberately
	// never stored here, it resets on every boot
	dbFile, _ := filepath.Abs("./tmp/dev.db")
	db, err := openDb(dbFile)
	if err != nil {
		panic(err)
	}
	ENV.DB = db
}

// serialReader keeps the poll loop alive across read timeouts, which the
// port reports as io.EOF.
type serialReader struct {
	port *serial.Port
}

func (r serialReader) Read(p []byte) (n int, err error) {
	n, err = r.port.Read(p)
	if err == io.EOF {
		err = nil
	}
	return
}

func main() {
	simulated := flag.Bool("sim", false, "Run the drive against the simulator instead of the GPIO header")
	devShell := flag.Bool("shell", false, "Start the local development shell")
	port := flag.String("port", "0.0.0.0:80", "Specify the ip:port for the control API")
	flag.Parse()

	defer ENV.DB.Close()

	filename, err := filepath.Abs(ENV.SRCDIR + "/codebot.yaml")
	if err != nil {
		panic(err)
	}

	config, err := onboard.LoadConfig(filename)
	if err != nil {
		panic(fmt.Sprintf("Unable to load config: %v", err))
	}

	ENV.Simulated = *simulated
	bot, err := onboard.NewCodebot(config, ENV.Simulated)
	if err != nil {
		panic(fmt.Sprintf("Unable to initialize codebot: %v", err))
	}
	ENV.Bot = bot

	//---
	// Serial command link
	//---
	if bot.Config.Serial.Port != "" && !ENV.Simulated {
		link, err := serial.OpenPort(&serial.Config{
			Name:        bot.Config.Serial.Port,
			Baud:        bot.Config.Serial.Baud,
			ReadTimeout: SERIAL_POLL,
		})
		if err != nil {
			panic(fmt.Sprintf("Unable to open serial link: %v", err))
		}

		// outputs must be safe before the link announces itself
		if err = bot.Interp.Announce(link); err != nil {
			panic(err)
		}

		go func() {
			if err := bot.Interp.Run(serialReader{link}, link, nil); err != nil {
				log.Fatal("serial link: ", err)
			}
		}()
	}

	if *devShell {
		go startShell(bot)
	}

	//---
	// Build the API routes
	//---
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Recoverer) // make sure this is last

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", Login)

		r.Route("/", func(r chi.Router) {
			// Seek, verify and validate JWT tokens
			r.Use(ValidateJWT)

			r.Get("/state", State)
			r.Post("/command", Command)
			r.Get("/refresh_token", JWTRefresh)
		})
	})

	r.Route("/ws", func(r chi.Router) {
		if !ENV.DEBUG {
			r.Use(ValidateJWT)
		} else {
			fmt.Println("Running in debug mode. Authentication disabled.")
		}

		r.Get("/command", CommandSocket)
	})

	fmt.Println("Listening on port", *port)
	if err := http.ListenAndServe(*port, r); err != nil {
		log.Fatal(err)
	}
}

func startShell(bot *onboard.Codebot) {
	shell := ishell.New()
	shell.Println("Codebot development shell")

	shell.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "send <commands> - dispatch command bytes as if they arrived on the serial link",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: send <commands>"))
				return
			}
			for _, cmd := range []byte(c.Args[0]) {
				ack, err := bot.Command(cmd)
				if err != nil {
					c.Err(err)
					return
				}
				if ack != "" {
					c.Println(ack)
				}
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "speed",
		Help: "print the current duty cycle",
		Func: func(c *ishell.Context) {
			c.Printf("%d\n", bot.Interp.Speed())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "dump the full drive state",
		Func: func(c *ishell.Context) {
			c.Printf("%+v\n", bot.GetState())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "adduser",
		Help: "adduser <email> <name> - create an API user",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: adduser <email> <name>"))
				return
			}

			c.Print("Password: ")
			pass := c.ReadPassword()

			user, err := CreateUser(c.Args[0], c.Args[1], []byte(pass))
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("Created user %d <%s>\n", user.ID, user.Email)
		},
	})

	shell.Start()
}
