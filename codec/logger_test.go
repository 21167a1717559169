package codec_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/nervedata/packetcodec/codec"
)

func TestSetLoggerConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codec.SetLogger(zap.NewNop())
			assert.NotNil(t, codec.Logger())
		}()
	}
	wg.Wait()
}
