package libserverless

import (
	"context"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/nathants/libserverless/lib"
)

func init() {
	lib.Commands["serverless-table-ensure"] = serverlessTableEnsure
	lib.Args["serverless-table-ensure"] = serverlessTableEnsureArgs{}
}

type serverlessTableEnsureArgs struct {
	Name    string   `arg:"positional,required,env:TABLE_NAME"`
	Attrs   []string `arg:"positional"`
	Preview bool     `arg:"-p,--preview"`
}

func (serverlessTableEnsureArgs) Description() string {
	return `

ensure the audit table exists and wait for it to be active

keys look like: $name:s|n|b:hash|range, default: id:s:hash
attrs look like: read=5 write=5 stream=new_image
                 SSESpecification.KMSMasterKeyId=$key
                 Tags.0.Key=$key Tags.0.Value=$value

>> libserverless serverless-table-ensure hello-requests id:s:hash

`
}

func serverlessTableEnsure() {
	var args serverlessTableEnsureArgs
	arg.MustParse(&args)
	ctx := context.Background()
	var keys []string
	var attrs []string
	for _, a := range args.Attrs {
		if strings.Contains(a, "=") {
			attrs = append(attrs, a)
		} else {
			keys = append(keys, a)
		}
	}
	if len(keys) == 0 {
		keys = []string{"id:s:hash"}
	}
	input, err := lib.DynamoDBEnsureInput(args.Name, keys, attrs)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	err = lib.DynamoDBEnsure(ctx, input, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
