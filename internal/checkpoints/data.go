package checkpoints

import (
	"errors"
	"fmt"
	"time"

	"github.com/tendermint/checkpoint/types"
)

// Data is a checkpoint table together with the statistics used to calibrate
// progress estimates. Values are authored with each release and are never
// modified at runtime.
type Data struct {
	Table *Table

	// Timestamp of the block at the last checkpoint.
	LastCheckpointTime time.Time
	// Total number of transactions between genesis and the last checkpoint.
	LastCheckpointTxCount int64
	// Estimated number of transactions per day after the last checkpoint.
	TxPerDay float64
}

// ValidateBasic performs basic validation of operator supplied data.
func (d *Data) ValidateBasic() error {
	if d.Table == nil || d.Table.Len() == 0 {
		return errors.New("checkpoint table must not be empty")
	}
	if d.LastCheckpointTxCount < 0 {
		return fmt.Errorf("negative last checkpoint tx count: %d", d.LastCheckpointTxCount)
	}
	if d.TxPerDay < 0 {
		return fmt.Errorf("negative tx per day estimate: %v", d.TxPerDay)
	}
	if d.LastCheckpointTime.IsZero() {
		return errors.New("last checkpoint time is not set")
	}
	return nil
}

// What makes a good checkpoint block?
//  - surrounded by blocks with reasonable timestamps (no block before it
//    with a later timestamp, none after it with an earlier one)
//  - contains no strange transactions
var mainnetData = &Data{
	Table: MustNewTable(
		Entry{0, types.MustHashFromHex("0x00000496d303ae6e6ed9d474639f18b3fdf70166c8d89d1267bbf5fd640e1690")},
		Entry{1, types.MustHashFromHex("0x000002bdf3c3a74682b7cb835e9a431832728ff056d2a859a1e191f3ff71c378")},
		Entry{50, types.MustHashFromHex("0x00000b4d4f7dec7d1fcfa143cdbdeb9397b55d989d5da8a148b43fee07ad63d6")},
		Entry{100, types.MustHashFromHex("0x000003d5654690e6ac39e6d6d3713fccdeb64a8ccb113c1434efdcaebb64f43e")},
		Entry{1611, types.MustHashFromHex("0x0000000007c94b680ac77122eb882a8b45cd0b3d167e24112096c7b01e24bfb3")},
		Entry{1612, types.MustHashFromHex("0x00000000047ec7d9318ecf5c128c15141a76105339098da97e614364fc2a09a9")},
		Entry{1999, types.MustHashFromHex("0x0000000015c1f6fc25899bd13c8111a5255748622d46581c21e50dc2051a23a1")},
		Entry{2000, types.MustHashFromHex("0x0000000000bbd180a7818896df255a09955393fe5432428e17b1cbae572e2a13")},
		Entry{3010, types.MustHashFromHex("0x000000000e099f930eb1da8c7925112f7af6221bd5912dda4e2358eda9ff9964")},
		Entry{4300, types.MustHashFromHex("0x000000016bf6bb1f040cc50578ae2897bd3754a7ec37120e8fe2fcb4dd9c7e6c")},
		Entry{4512, types.MustHashFromHex("0x000000007ad8789e12c23e6e8482c672dacb1d3f2c120fea6d2047dd1055d579")},
		Entry{11177, types.MustHashFromHex("0x000000004327606dee194e90cb1e5fabe9d4e9ce798e50a9c303a75b186cba2a")},
		Entry{12485, types.MustHashFromHex("0x00000000fc6146156e1edcc05017231e0c9262f1ab4a661b669381a54e273d55")},
		Entry{22650, types.MustHashFromHex("0x00000000601668eded5ba43578abff2c166481bff9449abffa339ce9ac8c63e5")},
		Entry{26000, types.MustHashFromHex("0x00000000015da7acf3afcf206db6ad0f7fc1928ff3505f84a96195e6fff2ffec")},
		Entry{27975, types.MustHashFromHex("0x000000004499157bc9577b8b8902fbeaae418ed805ccd58660a587dbe3215487")},
		Entry{45001, types.MustHashFromHex("0x00000001a1ee4e1dafe94079d0a4fde98d6314d0bb1fad05e8a49b62a2004cde")},
		Entry{50000, types.MustHashFromHex("0x000000005deea64c2353af5c6c75b37033e4ab8da628b24360643be32f51d8ae")},
		Entry{75000, types.MustHashFromHex("0x00000000bcc6345cc5af3e011c86e7ae53825449e19337f0d54aeef2a07ac65c")},
	),
	LastCheckpointTime:    time.Unix(1411478807, 0).UTC(),
	LastCheckpointTxCount: 93239, // the tx=... number in the chain-state log lines
	TxPerDay:              480,
}

// The test network has no usable checkpoints. The genesis entry carries the
// zero sentinel hash, which no block ever matches.
var testnetData = &Data{
	Table:                 MustNewTable(Entry{0, types.ZeroHash}),
	LastCheckpointTime:    time.Unix(1396890000, 0).UTC(),
	LastCheckpointTxCount: 3000,
	TxPerDay:              30,
}

// DataFor returns the compiled-in data of a network. The returned value is
// shared and must be treated as read-only.
func DataFor(network Network) *Data {
	if network == Testnet {
		return testnetData
	}
	return mainnetData
}
