// Generates random signing secrets for the token service.
// Access and refresh tokens must be signed with independent secrets,
// so by default two are printed, one per line.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

const SecretKeyBytesLen = 32

func main() {
	count := pflag.IntP("count", "n", 2, "number of secrets to generate")
	pflag.Parse()

	for range *count {
		b := make([]byte, SecretKeyBytesLen)

		_, err := rand.Read(b)
		if err != nil {
			fmt.Printf("error while generating secret key: %v", err)
			os.Exit(1)
		}

		fmt.Println(hex.EncodeToString(b))
	}
}
